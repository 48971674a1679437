package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkall/classkit/pkg/classfile"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestIndex_PutGetDelete(t *testing.T) {
	idx := openTestIndex(t)

	summary := ClassSummary{
		ClassName:           "com/foo/Shape",
		SuperName:           "java/lang/Object",
		PermittedSubclasses: []string{"com/foo/Circle"},
		ScanID:              NewScanID(),
	}
	require.NoError(t, idx.Put(summary))

	got, err := idx.Get("com/foo/Shape")
	require.NoError(t, err)
	assert.Equal(t, summary.ClassName, got.ClassName)
	assert.Equal(t, summary.PermittedSubclasses, got.PermittedSubclasses)
	assert.True(t, got.IsSealed())
	assert.False(t, got.IsRecord())

	require.NoError(t, idx.Delete("com/foo/Shape"))
	_, err = idx.Get("com/foo/Shape")
	assert.ErrorIs(t, err, ErrNotIndexed)
}

func TestIndex_PutRejectsEmptyName(t *testing.T) {
	idx := openTestIndex(t)
	assert.Error(t, idx.Put(ClassSummary{}))
}

func TestIndex_ListByPrefix(t *testing.T) {
	idx := openTestIndex(t)

	for _, name := range []string{"com/foo/A", "com/foo/B", "org/bar/C"} {
		require.NoError(t, idx.Put(ClassSummary{ClassName: name}))
	}

	all, err := idx.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	foo, err := idx.List("com/foo/")
	require.NoError(t, err)
	require.Len(t, foo, 2)
	assert.Equal(t, "com/foo/A", foo[0].ClassName)
	assert.Equal(t, "com/foo/B", foo[1].ClassName)

	none, err := idx.List("net/")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSummarize(t *testing.T) {
	cf := classfile.New("com/foo/Point", "java/lang/Record")

	component := classfile.NewRecordComponent(
		cf.Pool,
		cf.Pool.AddUtf8("x"),
		cf.Pool.AddUtf8("I"),
		nil,
	)
	cf.AddAttribute(classfile.NewRecordAttribute(cf.Pool, []*classfile.RecordComponent{component}))

	permitted := classfile.NewPermittedSubclassesAttribute(cf.Pool)
	require.NoError(t, permitted.AddClass("com/foo/Point3D"))
	cf.AddAttribute(permitted)

	scanID := NewScanID()
	summary, err := Summarize(cf, "build/Point.class", scanID)
	require.NoError(t, err)

	assert.Equal(t, "com/foo/Point", summary.ClassName)
	assert.Equal(t, "java/lang/Record", summary.SuperName)
	assert.Equal(t, "build/Point.class", summary.SourcePath)
	assert.Equal(t, scanID, summary.ScanID)
	assert.Equal(t, []RecordComponent{{Name: "x", Descriptor: "I"}}, summary.RecordComponents)
	assert.Equal(t, []string{"com/foo/Point3D"}, summary.PermittedSubclasses)
	assert.Contains(t, summary.AttributeNames, classfile.RecordTag)
	assert.True(t, summary.IsRecord())
	assert.True(t, summary.IsSealed())
	assert.False(t, summary.ScannedAt.IsZero())
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "com/foo/A", NormalizeName("com.foo.A"))
	assert.Equal(t, "com/foo/A", NormalizeName("com/foo/A"))
}
