package classfile

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frameAttribute builds the u2 name index / u4 length / body framing.
func frameAttribute(nameIndex uint16, body []byte) []byte {
	framed := make([]byte, 6+len(body))
	binary.BigEndian.PutUint16(framed[0:], nameIndex)
	binary.BigEndian.PutUint32(framed[2:], uint32(len(body)))
	copy(framed[6:], body)
	return framed
}

func TestReadAttribute_OpaqueFallback(t *testing.T) {
	cp := NewConstPool()
	nameIdx := cp.AddUtf8("SomeFutureAttribute")
	body := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00}

	attr, err := DecodeAttribute(cp, frameAttribute(nameIdx, body))
	require.NoError(t, err)

	opaque, ok := attr.(*OpaqueAttribute)
	require.True(t, ok, "unrecognized names must fall back to OpaqueAttribute")
	assert.Equal(t, "SomeFutureAttribute", opaque.Name())
	assert.Equal(t, body, opaque.Body())

	// re-emission is byte-identical
	var buf bytes.Buffer
	require.NoError(t, opaque.Write(&buf))
	assert.Equal(t, frameAttribute(nameIdx, body), buf.Bytes())
}

func TestReadAttribute_CursorAdvancesPastUnknownBody(t *testing.T) {
	cp := NewConstPool()
	unknownIdx := cp.AddUtf8("Unknown")
	sigIdx := cp.AddUtf8(SignatureTag)
	strIdx := cp.AddUtf8("Lcom/foo/A;")

	var data []byte
	data = append(data, frameAttribute(unknownIdx, []byte{1, 2, 3})...)
	sigBody := []byte{0, 0}
	binary.BigEndian.PutUint16(sigBody, strIdx)
	data = append(data, frameAttribute(sigIdx, sigBody)...)

	r := NewReader(data)
	first, err := ReadAttribute(cp, r)
	require.NoError(t, err)
	assert.IsType(t, &OpaqueAttribute{}, first)

	second, err := ReadAttribute(cp, r)
	require.NoError(t, err)
	sig, ok := second.(*SignatureAttribute)
	require.True(t, ok)
	s, err := sig.Signature()
	require.NoError(t, err)
	assert.Equal(t, "Lcom/foo/A;", s)
	assert.Equal(t, 0, r.Remaining())
}

func TestReadAttribute_Truncated(t *testing.T) {
	cp := NewConstPool()
	nameIdx := cp.AddUtf8("Whatever")

	framed := frameAttribute(nameIdx, []byte{1, 2, 3, 4})
	_, err := DecodeAttribute(cp, framed[:len(framed)-2])
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestReadAttribute_UnresolvedName(t *testing.T) {
	cp := NewConstPool()
	_, err := DecodeAttribute(cp, frameAttribute(99, nil))
	assert.ErrorIs(t, err, ErrUnresolvedIndex)
}

func TestRenameClasses_AppliesEveryPair(t *testing.T) {
	cp := NewConstPool()
	attr := NewSignatureAttribute(cp, "(Lcom/a/A;)Lcom/b/B;")

	err := RenameClasses(attr, map[string]string{
		"com/a/A": "org/a/A",
		"com/b/B": "org/b/B",
	})
	require.NoError(t, err)

	s, err := attr.Signature()
	require.NoError(t, err)
	assert.Equal(t, "(Lorg/a/A;)Lorg/b/B;", s)
}
