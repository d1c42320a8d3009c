package calendar

import (
	"fmt"
	"strings"
)

// BusinessDayConvention selects how a date falling on a holiday is rolled.
type BusinessDayConvention string

const (
	Following         BusinessDayConvention = "FOLLOWING"
	ModifiedFollowing BusinessDayConvention = "MODIFIED_FOLLOWING"
	Preceding         BusinessDayConvention = "PRECEDING"
	ModifiedPreceding BusinessDayConvention = "MODIFIED_PRECEDING"
	Unadjusted        BusinessDayConvention = "UNADJUSTED"
)

// ParseConvention accepts the enum spelling as well as the usual short forms (MF, F, P, MP).
func ParseConvention(s string) (BusinessDayConvention, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	switch key {
	case "F", "FOLLOWING":
		return Following, nil
	case "MF", "MODIFIED_FOLLOWING", "MODIFIEDFOLLOWING":
		return ModifiedFollowing, nil
	case "P", "PRECEDING":
		return Preceding, nil
	case "MP", "MODIFIED_PRECEDING", "MODIFIEDPRECEDING":
		return ModifiedPreceding, nil
	case "U", "NONE", "UNADJUSTED":
		return Unadjusted, nil
	default:
		return "", fmt.Errorf("unknown business day convention %q", s)
	}
}
