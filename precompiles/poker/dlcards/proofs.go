package dlcards

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// Domain separators for the Fiat-Shamir challenges and key derivation.
var (
	domainKeyOwnership = []byte("dlcards-key-ownership-v1")
	domainReveal       = []byte("dlcards-reveal-v1")
	domainCommitKey    = []byte("dlcards-commit-key-v1")
)

const (
	// KeyOwnershipProofSize is R || s.
	KeyOwnershipProofSize = PointSize + ScalarSize
	// RevealProofSize is A || B || s.
	RevealProofSize = 2*PointSize + ScalarSize
)

// KeyOwnershipProof is a Schnorr proof of knowledge of a secret key.
type KeyOwnershipProof struct {
	Commitment bn254.G1Affine
	Response   fr.Element
}

// RevealProof is a Chaum-Pedersen proof that a reveal token and a public
// key share one discrete log.
type RevealProof struct {
	A        bn254.G1Affine
	B        bn254.G1Affine
	Response fr.Element
}

// DecodeKeyOwnershipProof reads R || s.
func DecodeKeyOwnershipProof(b []byte) (*KeyOwnershipProof, error) {
	if len(b) != KeyOwnershipProofSize {
		return nil, errors.Wrapf(ErrLength, "key ownership proof is %d bytes", len(b))
	}
	var (
		p   KeyOwnershipProof
		err error
	)
	if p.Commitment, err = DecodePoint(b[:PointSize]); err != nil {
		return nil, err
	}
	if p.Response, err = DecodeScalar(b[PointSize:]); err != nil {
		return nil, err
	}
	return &p, nil
}

// Bytes encodes the proof.
func (p *KeyOwnershipProof) Bytes() []byte {
	return append(EncodePoint(&p.Commitment), EncodeScalar(&p.Response)...)
}

// DecodeRevealProof reads A || B || s.
func DecodeRevealProof(b []byte) (*RevealProof, error) {
	if len(b) != RevealProofSize {
		return nil, errors.Wrapf(ErrLength, "reveal proof is %d bytes", len(b))
	}
	var (
		p   RevealProof
		err error
	)
	if p.A, err = DecodePoint(b[:PointSize]); err != nil {
		return nil, err
	}
	if p.B, err = DecodePoint(b[PointSize : 2*PointSize]); err != nil {
		return nil, err
	}
	if p.Response, err = DecodeScalar(b[2*PointSize:]); err != nil {
		return nil, err
	}
	return &p, nil
}

// Bytes encodes the proof.
func (p *RevealProof) Bytes() []byte {
	out := append(EncodePoint(&p.A), EncodePoint(&p.B)...)
	return append(out, EncodeScalar(&p.Response)...)
}

func challenge(domain []byte, parts ...[]byte) fr.Element {
	h := sha3.New512()
	h.Write(domain)
	for _, p := range parts {
		h.Write(p)
	}
	var c fr.Element
	c.SetBytes(h.Sum(nil))
	return c
}

func keyOwnershipChallenge(params *Parameters, pk *PublicKey, memo []byte, r *bn254.G1Affine) fr.Element {
	return challenge(domainKeyOwnership, params.Bytes(), EncodePoint(pk), EncodeMemo(memo), EncodePoint(r))
}

func revealChallenge(params *Parameters, pk *PublicKey, token *RevealToken, masked *MaskedCard, a, b *bn254.G1Affine) fr.Element {
	return challenge(domainReveal, params.Bytes(), EncodePoint(pk), EncodePoint(token), masked.Bytes(),
		EncodePoint(a), EncodePoint(b))
}

// KeyGen draws a player secret and its public key.
func KeyGen(params *Parameters) (fr.Element, PublicKey, error) {
	var sk fr.Element
	if _, err := sk.SetRandom(); err != nil {
		return sk, PublicKey{}, errors.Wrap(err, "dlcards: keygen")
	}
	return sk, mul(&params.Generator, &sk), nil
}

// ProveKeyOwnership proves knowledge of sk for pk, bound to memo.
func ProveKeyOwnership(params *Parameters, sk *fr.Element, pk *PublicKey, memo []byte) (*KeyOwnershipProof, error) {
	var k fr.Element
	if _, err := k.SetRandom(); err != nil {
		return nil, errors.Wrap(err, "dlcards: nonce")
	}
	r := mul(&params.Generator, &k)
	c := keyOwnershipChallenge(params, pk, memo, &r)
	var s fr.Element
	s.Mul(&c, sk).Add(&s, &k)
	return &KeyOwnershipProof{Commitment: r, Response: s}, nil
}

// ComputeRevealToken returns sk*C1 and a proof that it used the secret
// behind pk.
func ComputeRevealToken(params *Parameters, sk *fr.Element, pk *PublicKey, masked *MaskedCard) (RevealToken, *RevealProof, error) {
	token := mul(&masked.C1, sk)
	var k fr.Element
	if _, err := k.SetRandom(); err != nil {
		return token, nil, errors.Wrap(err, "dlcards: nonce")
	}
	a := mul(&params.Generator, &k)
	b := mul(&masked.C1, &k)
	c := revealChallenge(params, pk, &token, masked, &a, &b)
	var s fr.Element
	s.Mul(&c, sk).Add(&s, &k)
	return token, &RevealProof{A: a, B: b, Response: s}, nil
}

// EncodeCard maps a small card index onto a group element.
func EncodeCard(params *Parameters, index uint64) Card {
	var card Card
	card.ScalarMultiplication(&params.Generator, new(big.Int).SetUint64(index+1))
	return card
}
