package common

func GetStringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func PtrString(s string) *string {
	return &s
}

func PtrFloat(f float64) *float64 {
	return &f
}

func PtrUint(u uint) *uint {
	return &u
}
