package classfile

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstPool_Interning(t *testing.T) {
	cp := NewConstPool()

	a := cp.AddUtf8("hello")
	b := cp.AddUtf8("hello")
	assert.Equal(t, a, b, "same string must intern to the same index")

	c := cp.AddUtf8("world")
	assert.NotEqual(t, a, c)

	// AddClass reuses an existing Utf8 entry for the name
	before := cp.Size()
	cp.AddUtf8("com/foo/A")
	idx := cp.AddClass("com/foo/A")
	assert.Equal(t, before+2, cp.Size(), "only the Utf8 and Class entries are added")
	assert.Equal(t, idx, cp.AddClass("com/foo/A"))
}

func TestConstPool_Lookups(t *testing.T) {
	cp := NewConstPool()
	utf8Idx := cp.AddUtf8("value")
	classIdx := cp.AddClass("com/foo/A")

	s, err := cp.Utf8(utf8Idx)
	require.NoError(t, err)
	assert.Equal(t, "value", s)

	name, err := cp.ClassName(classIdx)
	require.NoError(t, err)
	assert.Equal(t, "com/foo/A", name)

	// index 0 is invalid
	_, err = cp.Utf8(0)
	assert.ErrorIs(t, err, ErrUnresolvedIndex)

	// out of range
	_, err = cp.ClassName(uint16(cp.Size()))
	assert.ErrorIs(t, err, ErrUnresolvedIndex)

	// wrong entry kind
	_, err = cp.ClassName(utf8Idx)
	assert.ErrorIs(t, err, ErrUnresolvedIndex)
}

func TestConstPool_RoundTrip(t *testing.T) {
	cp := NewConstPool()
	cp.AddUtf8("name")
	cp.AddClass("com/foo/A")
	cp.append(&IntegerInfo{Value: -42})
	cp.append(&LongInfo{Value: 1 << 40})
	cp.append(nil) // filler slot for the Long
	cp.append(&NameAndTypeInfo{NameIndex: 1, DescriptorIndex: 1})
	cp.append(&StringInfo{StringIndex: 1})
	cp.append(&MethodHandleInfo{ReferenceKind: 6, ReferenceIndex: 2})

	var buf bytes.Buffer
	require.NoError(t, cp.write(&buf))

	parsed, err := readConstPool(NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, cp.Size(), parsed.Size())
	assert.Equal(t, cp.entries, parsed.entries)

	name, err := parsed.ClassName(parsed.classes["com/foo/A"])
	require.NoError(t, err)
	assert.Equal(t, "com/foo/A", name)
}

func TestConstPool_ReadTruncated(t *testing.T) {
	cp := NewConstPool()
	cp.AddUtf8("something long enough")
	var buf bytes.Buffer
	require.NoError(t, cp.write(&buf))

	_, err := readConstPool(NewReader(buf.Bytes()[:buf.Len()-3]))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestToInternalName(t *testing.T) {
	assert.Equal(t, "com/foo/A", ToInternalName("com.foo.A"))
	assert.Equal(t, "com/foo/A", ToInternalName("com/foo/A"))
	assert.Equal(t, "A", ToInternalName("A"))
}
