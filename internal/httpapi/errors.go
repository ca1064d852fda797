package httpapi

import "fmt"

func errInvalidLanguage(lang interface{}) error {
	return fmt.Errorf("language %v is not one of c|python|java|rust|go", lang)
}

func errMissingField(name string) error {
	return fmt.Errorf("%s is required", name)
}

func errOutOfRange(name string, got, min, max int) error {
	return fmt.Errorf("%s=%d out of range [%d, %d]", name, got, min, max)
}
