package utils

// SafeDeref safely dereferences a string pointer and returns empty string if nil
func SafeDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SafeDerefFloat64 safely dereferences a float64 pointer and returns 0 if nil
func SafeDerefFloat64(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
