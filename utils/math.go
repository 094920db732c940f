package utils

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

// Linspace is N evenly spaced values from start to end inclusive
func Linspace(start, end float64, N int) (v []float64) {
	v = make([]float64, N)
	if N == 1 {
		v[0] = start
		return
	}
	step := (end - start) / float64(N-1)
	for i := range v {
		v[i] = start + float64(i)*step
	}
	return
}
