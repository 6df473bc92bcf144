package ds

// NearestDivisibleByM returns the smallest value that is not less than n
// and divisible by m. It is how bit offsets get rounded up to byte boundaries:
//
//   NearestDivisibleByM(13, 8) == 16
//   NearestDivisibleByM(16, 8) == 16
func NearestDivisibleByM(n int, m int) int {
	if m <= 0 {
		panic(ErrUnreachableCode{Caller: "NearestDivisibleByM"})
	}
	remainder := n % m
	switch {
	case remainder == 0:
		return n
	case remainder < 0:
		return n - remainder
	default:
		return n + m - remainder
	}
}
