/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: rotation.go
Description: Month rotation for the universal date widget. Produces the order in which month
names must appear when the "next month" control is pressed repeatedly from the current month.
*/

package calendar

// RotateMonths returns the month set read from current onwards, wrapping past the last month.
// The input set is not modified.
func RotateMonths(months LocalizedMonthSet, current string) ([]string, error) {
	idx := months.Index(current)
	if idx < 0 {
		return nil, &NotFoundError{Calendar: months.Calendar, Month: current}
	}
	n := len(months.Months)
	rotated := make([]string, 0, n)
	for i := 0; i < n; i++ {
		rotated = append(rotated, months.Months[(idx+i)%n])
	}
	return rotated, nil
}
