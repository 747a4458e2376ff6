package v1

import (
	"errors"
	"strconv"
)

// parseMonthYear validates the optional month/year filter pair. Both must be
// present together; zeros mean "no filter".
func parseMonthYear(monthStr, yearStr string) (month, year int, err error) {
	if monthStr == "" && yearStr == "" {
		return 0, 0, nil
	}
	if monthStr == "" || yearStr == "" {
		return 0, 0, errors.New("month and year must be provided together")
	}

	month, err = strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, errors.New("month must be an integer between 1 and 12")
	}

	year, err = strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, errors.New("year must be an integer between 2000 and 2100")
	}

	return month, year, nil
}
