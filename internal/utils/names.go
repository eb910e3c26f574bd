package utils

import (
	"fmt"
	"strings"
)

// SplitFullName splits a free-text full name into surname, given name and
// patronymic. A two-part name has no patronymic; any other token count is
// rejected.
func SplitFullName(fullName string) (surname, name, patronymic string, err error) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 2:
		surname, name = parts[0], parts[1]
	case 3:
		surname, name, patronymic = parts[0], parts[1], parts[2]
	default:
		err = fmt.Errorf("invalid full name: it must have 2 or 3 parts, got: %s", fullName)
	}
	return
}

// JoinFullName rebuilds the display form "surname name [patronymic]".
func JoinFullName(surname, name, patronymic string) string {
	if patronymic == "" {
		return surname + " " + name
	}
	return surname + " " + name + " " + patronymic
}
