// Package hallmark implements the signed (host, weight, date, nonce)
// credential described in spec.md §4.2: parsing, signature verification,
// and the host-binding check that the peer registry relies on before it
// will let a hallmark contribute any weight.
package hallmark

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/nhzcoin/nhz/pkg/crypto"
)

// Hallmark is a parsed, not-yet-verified credential.
type Hallmark struct {
	AccountPublicKey [32]byte
	Host             string
	WeightFactor     int64
	Date             time.Time
	Nonce            uint64
	Signature        [64]byte
}

// Parse decodes the binary blob form: account_pk(32) | host_len(2) |
// host(var) | weight_factor(8) | date(4, epoch-days) | nonce(8) |
// signature(64).
func Parse(blob []byte) (*Hallmark, error) {
	r := bytes.NewReader(blob)
	h := &Hallmark{}

	if _, err := fillExact(r, h.AccountPublicKey[:]); err != nil {
		return nil, fmt.Errorf("hallmark: truncated account key: %w", err)
	}

	var hostLen uint16
	if err := binary.Read(r, binary.LittleEndian, &hostLen); err != nil {
		return nil, fmt.Errorf("hallmark: truncated host length: %w", err)
	}
	hostBytes := make([]byte, hostLen)
	if _, err := fillExact(r, hostBytes); err != nil {
		return nil, fmt.Errorf("hallmark: truncated host: %w", err)
	}
	h.Host = string(hostBytes)

	if err := binary.Read(r, binary.LittleEndian, &h.WeightFactor); err != nil {
		return nil, fmt.Errorf("hallmark: truncated weight factor: %w", err)
	}

	var epochDays uint32
	if err := binary.Read(r, binary.LittleEndian, &epochDays); err != nil {
		return nil, fmt.Errorf("hallmark: truncated date: %w", err)
	}
	h.Date = time.Unix(int64(epochDays)*86400, 0).UTC()

	if err := binary.Read(r, binary.LittleEndian, &h.Nonce); err != nil {
		return nil, fmt.Errorf("hallmark: truncated nonce: %w", err)
	}

	if _, err := fillExact(r, h.Signature[:]); err != nil {
		return nil, fmt.Errorf("hallmark: truncated signature: %w", err)
	}

	return h, nil
}

func fillExact(r *bytes.Reader, buf []byte) (int, error) {
	n, err := r.Read(buf)
	if err == nil && n != len(buf) {
		err = fmt.Errorf("short read: got %d want %d", n, len(buf))
	}
	return n, err
}

// signedMessage reconstructs the bytes the hallmark's signature covers:
// every field except the signature itself.
func (h *Hallmark) signedMessage() []byte {
	var buf bytes.Buffer
	buf.Write(h.AccountPublicKey[:])
	var hostLen [2]byte
	binary.LittleEndian.PutUint16(hostLen[:], uint16(len(h.Host)))
	buf.Write(hostLen[:])
	buf.WriteString(h.Host)
	var weight [8]byte
	binary.LittleEndian.PutUint64(weight[:], uint64(h.WeightFactor))
	buf.Write(weight[:])
	var date [4]byte
	binary.LittleEndian.PutUint32(date[:], uint32(h.Date.Unix()/86400))
	buf.Write(date[:])
	var nonce [8]byte
	binary.LittleEndian.PutUint64(nonce[:], h.Nonce)
	buf.Write(nonce[:])
	return buf.Bytes()
}

// Verify checks the hallmark's signature against its bound account key.
// This only wires up the black-box primitive (pkg/crypto); it does not
// check the host binding — see BoundToHost.
func (h *Hallmark) Verify() bool {
	return crypto.Verify(h.AccountPublicKey[:], h.signedMessage(), h.Signature[:])
}

// BoundToHost reports whether the hallmark's declared host matches the
// peer's actual host. A hallmark whose host doesn't match is dropped, per
// spec.md §3's invariant.
func (h *Hallmark) BoundToHost(actualHost string) bool {
	return h.Host == actualHost
}

// Valid runs both checks a peer's hallmark must pass before it can
// contribute any weight: signature validity and host binding.
func (h *Hallmark) Valid(actualHost string) bool {
	return h != nil && h.Verify() && h.BoundToHost(actualHost)
}
