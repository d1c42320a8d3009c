// Package request decodes leg requests and turns them into legs.
//
// Request files are YAML (JSON is accepted, being valid YAML). Dates are ISO
// "2006-01-02"; rates and spreads are decimals (0.03 is 3%).
package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/meenmo/couponleg/calendar"
	"github.com/meenmo/couponleg/config"
	"github.com/meenmo/couponleg/daycount"
	"github.com/meenmo/couponleg/index"
	"github.com/meenmo/couponleg/leg"
	"github.com/meenmo/couponleg/schedule"
	"github.com/meenmo/couponleg/utils"
	"github.com/meenmo/couponleg/volatility"
)

// Leg kinds accepted in Request.Kind.
const (
	KindFixed        = "fixed"
	KindFloating     = "floating"
	KindCMS          = "cms"
	KindCMSZero      = "cms_zero"
	KindCMSInArrears = "cms_in_arrears"
)

var ErrInvalidRequest = errors.New("invalid leg request")

var validate = validator.New()

// Request describes one leg to build.
type Request struct {
	Name              string          `yaml:"name"               validate:"required"`
	Kind              string          `yaml:"kind"               validate:"required,oneof=fixed floating cms cms_zero cms_in_arrears"`
	Schedule          ScheduleRequest `yaml:"schedule"`
	PaymentAdjustment string          `yaml:"payment_adjustment"`
	DayCounter        string          `yaml:"day_counter"`
	Nominals          []float64       `yaml:"nominals"`

	// fixed
	CouponRates           []float64 `yaml:"coupon_rates"`
	FirstPeriodDayCounter string    `yaml:"first_period_day_counter"`

	// floating and CMS
	Index          string    `yaml:"index"`
	IndexTenor     string    `yaml:"index_tenor"`
	FixingDays     int       `yaml:"fixing_days" validate:"gte=0"`
	Gearings       []float64 `yaml:"gearings"`
	Spreads        []float64 `yaml:"spreads"`
	Representation string    `yaml:"representation"`

	// CMS only
	Caps           []float64          `yaml:"caps"`
	Floors         []float64          `yaml:"floors"`
	MeanReversions []float64          `yaml:"mean_reversions"`
	Volatility     *VolatilityRequest `yaml:"volatility"`
}

// ScheduleRequest gives either explicit dates or the terms to generate them.
type ScheduleRequest struct {
	Dates                 []string `yaml:"dates"                  validate:"omitempty,min=2,dive,datetime=2006-01-02"`
	Regular               []bool   `yaml:"regular"`
	Effective             string   `yaml:"effective"              validate:"required_without=Dates,omitempty,datetime=2006-01-02"`
	Termination           string   `yaml:"termination"            validate:"required_without=Dates,omitempty,datetime=2006-01-02"`
	Tenor                 string   `yaml:"tenor"                  validate:"required"`
	Calendar              string   `yaml:"calendar"`
	Convention            string   `yaml:"convention"`
	TerminationConvention string   `yaml:"termination_convention"`
	Rule                  string   `yaml:"rule"                   validate:"omitempty,oneof=forward backward FORWARD BACKWARD"`
	EndOfMonth            bool     `yaml:"end_of_month"`
	MinStubDays           int      `yaml:"min_stub_days"          validate:"gte=0"`
}

// VolatilityRequest is a flat volatility or an expiry × tenor grid (in years).
type VolatilityRequest struct {
	ReferenceDate string      `yaml:"reference_date" validate:"required,datetime=2006-01-02"`
	Flat          float64     `yaml:"flat"           validate:"gte=0"`
	Expiries      []float64   `yaml:"expiries"`
	Tenors        []float64   `yaml:"tenors"`
	Vols          [][]float64 `yaml:"vols"`
}

// File is a batch of requests.
type File struct {
	Legs []Request `yaml:"legs" validate:"required,min=1,dive"`
}

// Decode reads a single request.
func Decode(r io.Reader) (*Request, error) {
	var req Request
	if err := decodeStrict(r, &req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// DecodeFile reads a batch of requests.
func DecodeFile(r io.Reader) (*File, error) {
	var f File
	if err := decodeStrict(r, &f); err != nil {
		return nil, err
	}
	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return &f, nil
}

// ReadInput reads from path, or from stdin when path is empty.
func ReadInput(stdin io.Reader, path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

func decodeStrict(r io.Reader, out any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty input", ErrInvalidRequest)
		}
		return fmt.Errorf("failed to parse request: %w", err)
	}
	return nil
}

// Validate checks the request's shape. Domain checks (empty nominals and the
// like) are left to the leg builders.
func (r *Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// Build turns the request into a leg, filling blank fields from d.
func (r *Request) Build(d config.LegDefaults) (leg.Leg, error) {
	sched, err := r.Schedule.build(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Name, err)
	}
	payAdj, err := calendar.ParseConvention(orDefault(r.PaymentAdjustment, d.PaymentAdjustment))
	if err != nil {
		return nil, fmt.Errorf("%s: payment_adjustment: %w", r.Name, err)
	}
	dc, err := daycount.Parse(orDefault(r.DayCounter, d.DayCounter))
	if err != nil {
		return nil, fmt.Errorf("%s: day_counter: %w", r.Name, err)
	}

	switch r.Kind {
	case KindFixed:
		spec := leg.FixedRateLegSpec{
			Schedule:          sched,
			PaymentAdjustment: payAdj,
			Nominals:          r.Nominals,
			CouponRates:       r.CouponRates,
			DayCounter:        dc,
		}
		if r.FirstPeriodDayCounter != "" {
			if spec.FirstPeriodDayCounter, err = daycount.Parse(r.FirstPeriodDayCounter); err != nil {
				return nil, fmt.Errorf("%s: first_period_day_counter: %w", r.Name, err)
			}
		}
		return leg.FixedRateLeg(spec)

	case KindFloating:
		ix, err := index.LookupIbor(r.Index)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Name, err)
		}
		rep, err := leg.ParseRepresentation(orDefault(r.Representation, d.Representation))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Name, err)
		}
		return leg.FloatingRateLeg(leg.FloatingRateLegSpec{
			Schedule:          sched,
			PaymentAdjustment: payAdj,
			Nominals:          r.Nominals,
			FixingDays:        r.FixingDays,
			Index:             ix,
			Gearings:          r.Gearings,
			Spreads:           r.Spreads,
			DayCounter:        dc,
			Representation:    rep,
		})

	default:
		spec, err := r.cmsSpec(sched, payAdj, dc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Name, err)
		}
		var coupons leg.CMSCoupons
		switch r.Kind {
		case KindCMSZero:
			coupons, err = leg.CMSZeroLeg(spec)
		case KindCMSInArrears:
			coupons, err = leg.CMSInArrearsLeg(spec)
		default:
			coupons, err = leg.CMSLeg(spec)
		}
		if err != nil {
			return nil, err
		}
		return coupons.Leg(), nil
	}
}

func (r *Request) cmsSpec(sched *schedule.Schedule, payAdj calendar.BusinessDayConvention, dc daycount.DayCounter) (leg.CMSLegSpec, error) {
	tenor, err := schedule.ParseTenor(r.IndexTenor)
	if err != nil {
		return leg.CMSLegSpec{}, fmt.Errorf("index_tenor: %w", err)
	}
	ix, err := index.LookupSwap(r.Index, tenor)
	if err != nil {
		return leg.CMSLegSpec{}, err
	}
	var vol volatility.SwaptionVolatility
	if r.Volatility != nil {
		if vol, err = r.Volatility.build(); err != nil {
			return leg.CMSLegSpec{}, err
		}
	}
	return leg.CMSLegSpec{
		Schedule:          sched,
		PaymentAdjustment: payAdj,
		Nominals:          r.Nominals,
		Index:             ix,
		FixingDays:        r.FixingDays,
		DayCounter:        dc,
		Gearings:          r.Gearings,
		Spreads:           r.Spreads,
		Caps:              r.Caps,
		Floors:            r.Floors,
		MeanReversions:    r.MeanReversions,
		Volatility:        vol,
	}, nil
}

func (s ScheduleRequest) build(d config.LegDefaults) (*schedule.Schedule, error) {
	tenor, err := schedule.ParseTenor(s.Tenor)
	if err != nil {
		return nil, fmt.Errorf("schedule.tenor: %w", err)
	}
	cal, err := calendar.ParseCalendar(orDefault(s.Calendar, d.Calendar))
	if err != nil {
		return nil, fmt.Errorf("schedule.calendar: %w", err)
	}
	conv, err := calendar.ParseConvention(orDefault(s.Convention, d.Convention))
	if err != nil {
		return nil, fmt.Errorf("schedule.convention: %w", err)
	}

	if len(s.Dates) > 0 {
		dates := make([]time.Time, len(s.Dates))
		for i, v := range s.Dates {
			if dates[i], err = utils.ParseDate(v); err != nil {
				return nil, fmt.Errorf("schedule.dates[%d]: %w", i, err)
			}
		}
		regular := s.Regular
		if len(regular) == 0 {
			regular = make([]bool, len(dates)-1)
			for i := range regular {
				regular[i] = true
			}
		}
		return schedule.New(dates, regular, tenor, cal, conv)
	}

	effective, err := utils.ParseDate(s.Effective)
	if err != nil {
		return nil, fmt.Errorf("schedule.effective: %w", err)
	}
	termination, err := utils.ParseDate(s.Termination)
	if err != nil {
		return nil, fmt.Errorf("schedule.termination: %w", err)
	}
	spec := schedule.GenerateSpec{
		Effective:   effective,
		Termination: termination,
		Tenor:       tenor,
		Calendar:    cal,
		Convention:  conv,
		Rule:        schedule.Rule(strings.ToUpper(s.Rule)),
		EndOfMonth:  s.EndOfMonth,
		MinStubDays: s.MinStubDays,
	}
	if s.TerminationConvention != "" {
		if spec.TerminationConvention, err = calendar.ParseConvention(s.TerminationConvention); err != nil {
			return nil, fmt.Errorf("schedule.termination_convention: %w", err)
		}
	}
	return schedule.Generate(spec)
}

func (v *VolatilityRequest) build() (volatility.SwaptionVolatility, error) {
	ref, err := utils.ParseDate(v.ReferenceDate)
	if err != nil {
		return nil, fmt.Errorf("volatility.reference_date: %w", err)
	}
	if len(v.Vols) == 0 {
		return volatility.NewConstant(ref, v.Flat), nil
	}
	g, err := volatility.NewGrid(ref, v.Expiries, v.Tenors, v.Vols)
	if err != nil {
		return nil, fmt.Errorf("volatility: %w", err)
	}
	return g, nil
}

// Marshal renders a request back to YAML, used for logging the effective request.
func (r *Request) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
