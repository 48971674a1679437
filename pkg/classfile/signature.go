package classfile

import (
	"fmt"
	"io"
)

// SignatureTag is the name of the Signature attribute.
const SignatureTag = "Signature"

// SignatureAttribute carries a generic type signature for a class, method,
// field or record component. Body layout: a single u2 signature_index.
type SignatureAttribute struct {
	cp             *ConstPool
	signatureIndex uint16
}

// NewSignatureAttribute creates a Signature attribute for signature,
// interning it into cp.
func NewSignatureAttribute(cp *ConstPool, signature string) *SignatureAttribute {
	cp.AddUtf8(SignatureTag)
	return &SignatureAttribute{cp: cp, signatureIndex: cp.AddUtf8(signature)}
}

func decodeSignature(cp *ConstPool, nameIndex uint16, body []byte) (AttributeInfo, error) {
	if len(body) < 2 {
		return nil, fmt.Errorf("%w: Signature body is %d bytes", ErrTruncated, len(body))
	}
	r := NewReader(body)
	idx, err := r.u16()
	if err != nil {
		return nil, err
	}
	return &SignatureAttribute{cp: cp, signatureIndex: idx}, nil
}

func (a *SignatureAttribute) Name() string {
	return SignatureTag
}

// Signature resolves the signature string.
func (a *SignatureAttribute) Signature() (string, error) {
	return a.cp.Utf8(a.signatureIndex)
}

func (a *SignatureAttribute) Write(w io.Writer) error {
	if err := writeU16(w, a.cp.AddUtf8(SignatureTag)); err != nil {
		return err
	}
	if err := writeU32(w, 2); err != nil {
		return err
	}
	return writeU16(w, a.signatureIndex)
}

// RenameClass rewrites class tokens inside the signature. The index is
// only replaced when the signature actually changes.
func (a *SignatureAttribute) RenameClass(oldName, newName string) error {
	signature, err := a.Signature()
	if err != nil {
		return err
	}
	renamed := RenameDescriptor(signature, oldName, newName)
	if renamed != signature {
		a.signatureIndex = a.cp.AddUtf8(renamed)
	}
	return nil
}

func (a *SignatureAttribute) CopyTo(newPool *ConstPool, classnames map[string]string) (AttributeInfo, error) {
	signature, err := a.Signature()
	if err != nil {
		return nil, err
	}
	return NewSignatureAttribute(newPool, RenameDescriptorMap(signature, classnames)), nil
}
