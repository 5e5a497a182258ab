package anemoi

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

// Permutation is the Anemoi permutation over a two-column state.
type Permutation interface {
	Permute(x, y *[2]fr.Element)
}

// Jive applies the Jive compression mode on top of a permutation: the
// output is the sum of every input word and every permuted word.
type Jive struct {
	P Permutation
}

// EvalJive implements JiveEvaluator.
func (j Jive) EvalJive(x, y [2]fr.Element) fr.Element {
	px, py := x, y
	j.P.Permute(&px, &py)

	var sum fr.Element
	for i := 0; i < 2; i++ {
		sum.Add(&sum, &x[i])
		sum.Add(&sum, &y[i])
		sum.Add(&sum, &px[i])
		sum.Add(&sum, &py[i])
	}
	return sum
}
