package dlcards

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/pkg/errors"
)

var (
	ErrShuffleUnsupported = errors.New("dlcards: no shuffle verifier configured")
	ErrInvalidProof       = errors.New("dlcards: proof rejected")
	ErrDegenerate         = errors.New("dlcards: degenerate input")
)

// ShuffleVerifier checks a shuffle argument between two decks.
type ShuffleVerifier interface {
	VerifyShuffle(params *Parameters, sharedKey *PublicKey, original, shuffled []MaskedCard, proof []byte) error
}

// Protocol implements the card operations. The zero value is usable and
// rejects shuffle verification.
type Protocol struct {
	Shuffle ShuffleVerifier
}

// Setup derives parameters for m players and n cards. The commitment key
// is hashed onto the curve from seed, so nobody knows its discrete logs.
func Setup(m, n uint64, seed []byte) (*Parameters, error) {
	if m == 0 || n == 0 || n > MaxCommitKeySize {
		return nil, errors.Wrapf(ErrDegenerate, "setup m=%d n=%d", m, n)
	}
	_, _, g, _ := bn254.Generators()
	p := &Parameters{M: m, N: n, Generator: g, CommitKey: make([]bn254.G1Affine, n)}
	for i := range p.CommitKey {
		msg := append(append([]byte{}, seed...), byte(i), byte(i>>8))
		pt, err := bn254.HashToG1(msg, domainCommitKey)
		if err != nil {
			return nil, errors.Wrap(err, "dlcards: commit key")
		}
		p.CommitKey[i] = pt
	}
	return p, nil
}

// AggregateKey sums the player keys starting from the identity.
func AggregateKey(keys []PublicKey) PublicKey {
	var agg bn254.G1Affine
	agg.SetInfinity()
	for i := range keys {
		agg.Add(&agg, &keys[i])
	}
	return agg
}

// AggregateToken sums reveal tokens starting from the identity.
func AggregateToken(tokens []RevealToken) RevealToken {
	return AggregateKey(tokens)
}

// Mask encrypts card under sharedKey with randomness r.
func (Protocol) Mask(params *Parameters, sharedKey *PublicKey, card *Card, r *fr.Element) (MaskedCard, error) {
	if r.IsZero() {
		return MaskedCard{}, errors.Wrap(ErrDegenerate, "zero masking factor")
	}
	k := r.BigInt(new(big.Int))
	var out MaskedCard
	out.C1.ScalarMultiplication(&params.Generator, k)
	var shared bn254.G1Affine
	shared.ScalarMultiplication(sharedKey, k)
	out.C2.Add(card, &shared)
	return out, nil
}

// Reveal removes an aggregate token from a masked card.
func (Protocol) Reveal(token *RevealToken, masked *MaskedCard) (Card, error) {
	if masked.C1.IsInfinity() {
		return Card{}, errors.Wrap(ErrDegenerate, "masked card has no ephemeral key")
	}
	var card Card
	card.Sub(&masked.C2, token)
	return card, nil
}

// VerifyKeyOwnership checks a proof that the holder of pk knows its secret.
func (Protocol) VerifyKeyOwnership(params *Parameters, pk *PublicKey, memo []byte, proof *KeyOwnershipProof) error {
	c := keyOwnershipChallenge(params, pk, memo, &proof.Commitment)
	// s*G == R + c*pk
	lhs := mul(&params.Generator, &proof.Response)
	rhs := mul(pk, &c)
	rhs.Add(&rhs, &proof.Commitment)
	if !lhs.Equal(&rhs) {
		return ErrInvalidProof
	}
	return nil
}

// VerifyReveal checks that token was computed with the secret behind pk.
func (Protocol) VerifyReveal(params *Parameters, pk *PublicKey, token *RevealToken, masked *MaskedCard, proof *RevealProof) error {
	c := revealChallenge(params, pk, token, masked, &proof.A, &proof.B)
	// s*G == A + c*pk
	lhs := mul(&params.Generator, &proof.Response)
	rhs := mul(pk, &c)
	rhs.Add(&rhs, &proof.A)
	if !lhs.Equal(&rhs) {
		return ErrInvalidProof
	}
	// s*C1 == B + c*token
	lhs = mul(&masked.C1, &proof.Response)
	rhs = mul(token, &c)
	rhs.Add(&rhs, &proof.B)
	if !lhs.Equal(&rhs) {
		return ErrInvalidProof
	}
	return nil
}

// VerifyShuffle delegates to the configured shuffle verifier after
// checking the deck shapes.
func (p Protocol) VerifyShuffle(params *Parameters, sharedKey *PublicKey, original, shuffled []MaskedCard, proof []byte) error {
	if p.Shuffle == nil {
		return ErrShuffleUnsupported
	}
	if len(original) != len(shuffled) {
		return errors.Wrapf(ErrInvalidProof, "deck sizes %d and %d", len(original), len(shuffled))
	}
	return p.Shuffle.VerifyShuffle(params, sharedKey, original, shuffled, proof)
}

func mul(p *bn254.G1Affine, s *fr.Element) bn254.G1Affine {
	var out bn254.G1Affine
	out.ScalarMultiplication(p, s.BigInt(new(big.Int)))
	return out
}
