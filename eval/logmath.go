package eval

import "math"

// logTable caches log-base-2 factorials for the description-length
// model. The table grows on demand; a discovery run shares one table
// across every scoring call.
type logTable struct {
	// fact[n] = lg(n!)
	fact []float64
}

func newLogTable() *logTable {
	return &logTable{fact: []float64{0, 0}}
}

// lg is log base 2 with lg(x) = 0 for x <= 0, the convention the
// description-length formula relies on for empty terms.
func lg(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Log2(x)
}

// lgFactorial returns lg(n!), extending the cache as needed.
func (t *logTable) lgFactorial(n int) float64 {
	if n < 0 {
		return 0
	}
	for len(t.fact) <= n {
		k := len(t.fact)
		t.fact = append(t.fact, t.fact[k-1]+math.Log2(float64(k)))
	}
	return t.fact[n]
}

// lgBinomial returns lg(C(n,k)); 0 when the coefficient is degenerate.
func (t *logTable) lgBinomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	return t.lgFactorial(n) - t.lgFactorial(k) - t.lgFactorial(n-k)
}
