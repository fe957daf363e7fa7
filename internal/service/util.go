package service

import "strconv"

func uintString(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}
