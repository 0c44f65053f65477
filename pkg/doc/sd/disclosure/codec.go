/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package disclosure

import (
	"encoding/base64"

	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/common"
	"github.com/hyperledger/selective-disclosure-go/pkg/doc/sd/value"
)

const (
	arrayElementParts = 2
	propertyParts     = 3
)

// Encoding is a reversible binary-to-text encoding applied to salts and to
// the rendered disclosure array. *base64.Encoding satisfies it.
type Encoding interface {
	EncodeToString(src []byte) string
	DecodeString(s string) ([]byte, error)
}

// Codec encodes and decodes disclosures to and from their compact wire form.
type Codec struct {
	encoding Encoding
}

// NewCodec creates a codec over the given encoding.
func NewCodec(encoding Encoding) *Codec {
	return &Codec{encoding: encoding}
}

// DefaultCodec returns the codec over unpadded base64url, the encoding every
// produced token uses.
func DefaultCodec() *Codec {
	return NewCodec(base64.RawURLEncoding)
}

// Encoding returns the codec's binary-to-text encoding.
func (c *Codec) Encoding() Encoding {
	return c.encoding
}

// Encode renders the disclosure array in compact JSON and applies the
// binary-to-text encoding to its bytes. Property disclosures render as
// [salt, name, value], array-element disclosures as [salt, value].
func (c *Codec) Encode(d *Disclosure) (string, error) {
	arr := value.Sequence{value.String(c.encoding.EncodeToString(d.Salt))}

	if !d.ArrayElement {
		arr = append(arr, value.String(d.Name))
	}

	arr = append(arr, d.Value)

	arrBytes, err := value.Marshal(arr)
	if err != nil {
		return "", common.NewFormatError(err, "marshal disclosure array")
	}

	return c.encoding.EncodeToString(arrBytes), nil
}

// Decode is the inverse of Encode. The element count selects the disclosure
// form; any other count, a malformed encoding or a non-string salt or name
// is reported as a FormatError.
func (c *Codec) Decode(encoded string) (*Disclosure, error) {
	decoded, err := c.encoding.DecodeString(encoded)
	if err != nil {
		return nil, common.NewFormatError(err, "decode disclosure")
	}

	arr, err := value.Unmarshal(decoded)
	if err != nil {
		return nil, common.NewFormatError(err, "unmarshal disclosure array")
	}

	seq, ok := arr.(value.Sequence)
	if !ok {
		return nil, common.NewFormatError(nil, "disclosure content type[%s] must be an array", arr.Kind())
	}

	if len(seq) != arrayElementParts && len(seq) != propertyParts {
		return nil, common.NewFormatError(nil, "disclosure array size[%d] must be %d or %d",
			len(seq), arrayElementParts, propertyParts)
	}

	saltStr, ok := seq[0].(value.String)
	if !ok {
		return nil, common.NewFormatError(nil, "disclosure salt type[%s] must be string", seq[0].Kind())
	}

	salt, err := c.encoding.DecodeString(string(saltStr))
	if err != nil {
		return nil, common.NewFormatError(err, "decode disclosure salt")
	}

	d := &Disclosure{Salt: salt, Encoded: encoded}

	if len(seq) == arrayElementParts {
		d.ArrayElement = true
		d.Value = seq[1]

		return d, nil
	}

	name, ok := seq[1].(value.String)
	if !ok {
		return nil, common.NewFormatError(nil, "disclosure name type[%s] must be string", seq[1].Kind())
	}

	d.Name = string(name)
	d.Value = seq[2]

	return d, nil
}
