// Package dlcards is a discrete-log mental-poker card protocol over the
// BN254 G1 group. Cards are group elements, masked cards are ElGamal
// ciphertexts under the players' aggregate key, and reveal tokens are the
// per-player decryption shares.
//
// Every value has one canonical byte form: points use the 32-byte
// compressed encoding, scalars their 32-byte little-endian form. Decoders
// reject anything else, including trailing bytes.
package dlcards

import (
	"encoding/binary"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/pkg/errors"
)

const (
	// PointSize is the size of a compressed G1 point.
	PointSize = bn254.SizeOfG1AffineCompressed
	// ScalarSize is the size of an encoded scalar.
	ScalarSize = fr.Bytes
	// MaskedCardSize is the size of an encoded masked card.
	MaskedCardSize = 2 * PointSize
	// MaxCommitKeySize bounds the commitment key carried in Parameters.
	MaxCommitKeySize = 1 << 12
)

var (
	ErrLength  = errors.New("dlcards: wrong encoding length")
	ErrPoint   = errors.New("dlcards: invalid point")
	ErrScalar  = errors.New("dlcards: non-canonical scalar")
	ErrTooMany = errors.New("dlcards: commit key too large")
)

// Card is a plaintext card, a group element.
type Card = bn254.G1Affine

// PublicKey is a player or aggregate public key.
type PublicKey = bn254.G1Affine

// RevealToken is one player's decryption share of a masked card.
type RevealToken = bn254.G1Affine

// MaskedCard is an ElGamal ciphertext (C1, C2) = (r*G, card + r*pk).
type MaskedCard struct {
	C1 bn254.G1Affine
	C2 bn254.G1Affine
}

// Parameters fixes the game shape and group generators: M players per
// shuffle row, N cards per row, the ElGamal generator, and the Pedersen
// commitment key used by shuffle arguments.
type Parameters struct {
	M         uint64
	N         uint64
	Generator bn254.G1Affine
	CommitKey []bn254.G1Affine
}

// DecodePoint reads a compressed point.
func DecodePoint(b []byte) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	if len(b) != PointSize {
		return p, errors.Wrapf(ErrLength, "point is %d bytes", len(b))
	}
	if _, err := p.SetBytes(b); err != nil {
		return p, errors.Wrap(ErrPoint, err.Error())
	}
	return p, nil
}

// EncodePoint writes the compressed form of p.
func EncodePoint(p *bn254.G1Affine) []byte {
	b := p.Bytes()
	return b[:]
}

// DecodeScalar reads a canonical little-endian scalar.
func DecodeScalar(b []byte) (fr.Element, error) {
	if len(b) != ScalarSize {
		return fr.Element{}, errors.Wrapf(ErrLength, "scalar is %d bytes", len(b))
	}
	var word [ScalarSize]byte
	copy(word[:], b)
	e, err := fr.LittleEndian.Element(&word)
	if err != nil {
		return fr.Element{}, errors.Wrap(ErrScalar, err.Error())
	}
	return e, nil
}

// EncodeScalar writes e in little-endian form.
func EncodeScalar(e *fr.Element) []byte {
	var word [ScalarSize]byte
	fr.LittleEndian.PutElement(&word, *e)
	return word[:]
}

// DecodeMaskedCard reads C1 || C2.
func DecodeMaskedCard(b []byte) (MaskedCard, error) {
	var c MaskedCard
	if len(b) != MaskedCardSize {
		return c, errors.Wrapf(ErrLength, "masked card is %d bytes", len(b))
	}
	var err error
	if c.C1, err = DecodePoint(b[:PointSize]); err != nil {
		return c, err
	}
	if c.C2, err = DecodePoint(b[PointSize:]); err != nil {
		return c, err
	}
	return c, nil
}

// Bytes encodes the masked card.
func (c *MaskedCard) Bytes() []byte {
	out := make([]byte, 0, MaskedCardSize)
	out = append(out, EncodePoint(&c.C1)...)
	return append(out, EncodePoint(&c.C2)...)
}

// DecodeParameters reads m | n | generator | count | commit key, with
// integers as 8-byte little-endian values.
func DecodeParameters(b []byte) (*Parameters, error) {
	const header = 8 + 8 + PointSize + 8
	if len(b) < header {
		return nil, errors.Wrapf(ErrLength, "parameters are %d bytes", len(b))
	}
	p := &Parameters{
		M: binary.LittleEndian.Uint64(b[0:8]),
		N: binary.LittleEndian.Uint64(b[8:16]),
	}
	var err error
	if p.Generator, err = DecodePoint(b[16 : 16+PointSize]); err != nil {
		return nil, errors.Wrap(err, "generator")
	}
	count := binary.LittleEndian.Uint64(b[16+PointSize : header])
	if count > MaxCommitKeySize {
		return nil, errors.Wrapf(ErrTooMany, "%d points", count)
	}
	rest := b[header:]
	if uint64(len(rest)) != count*PointSize {
		return nil, errors.Wrapf(ErrLength, "commit key of %d points in %d bytes", count, len(rest))
	}
	p.CommitKey = make([]bn254.G1Affine, count)
	for i := range p.CommitKey {
		if p.CommitKey[i], err = DecodePoint(rest[i*PointSize : (i+1)*PointSize]); err != nil {
			return nil, errors.Wrapf(err, "commit key %d", i)
		}
	}
	return p, nil
}

// Bytes encodes the parameters.
func (p *Parameters) Bytes() []byte {
	out := make([]byte, 0, 8+8+PointSize+8+len(p.CommitKey)*PointSize)
	out = binary.LittleEndian.AppendUint64(out, p.M)
	out = binary.LittleEndian.AppendUint64(out, p.N)
	out = append(out, EncodePoint(&p.Generator)...)
	out = binary.LittleEndian.AppendUint64(out, uint64(len(p.CommitKey)))
	for i := range p.CommitKey {
		out = append(out, EncodePoint(&p.CommitKey[i])...)
	}
	return out
}

// DecodeMemo reads a length-prefixed byte string (8-byte little-endian
// length followed by exactly that many bytes).
func DecodeMemo(b []byte) ([]byte, error) {
	if len(b) < 8 {
		return nil, errors.Wrapf(ErrLength, "memo is %d bytes", len(b))
	}
	n := binary.LittleEndian.Uint64(b[:8])
	if n != uint64(len(b)-8) {
		return nil, errors.Wrapf(ErrLength, "memo declares %d bytes, has %d", n, len(b)-8)
	}
	return b[8:], nil
}

// EncodeMemo is the inverse of DecodeMemo.
func EncodeMemo(memo []byte) []byte {
	out := binary.LittleEndian.AppendUint64(make([]byte, 0, 8+len(memo)), uint64(len(memo)))
	return append(out, memo...)
}
