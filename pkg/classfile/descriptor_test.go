package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenameDescriptor(t *testing.T) {
	testCases := []struct {
		name string
		desc string
		old  string
		new  string
		want string
	}{
		{
			name: "field descriptor",
			desc: "Lold/Pkg;",
			old:  "old/Pkg",
			new:  "new/Pkg",
			want: "Lnew/Pkg;",
		},
		{
			name: "primitive untouched",
			desc: "I",
			old:  "old/Pkg",
			new:  "new/Pkg",
			want: "I",
		},
		{
			name: "array of objects",
			desc: "[[Lold/Pkg;",
			old:  "old/Pkg",
			new:  "new/Pkg",
			want: "[[Lnew/Pkg;",
		},
		{
			name: "method descriptor, multiple occurrences",
			desc: "(Lold/Pkg;ILold/Pkg;)Lold/Pkg;",
			old:  "old/Pkg",
			new:  "new/Pkg",
			want: "(Lnew/Pkg;ILnew/Pkg;)Lnew/Pkg;",
		},
		{
			name: "token boundary: longer name not a match",
			desc: "Lold/PkgExtra;",
			old:  "old/Pkg",
			new:  "new/Pkg",
			want: "Lold/PkgExtra;",
		},
		{
			name: "token boundary: inner class not a match",
			desc: "Lold/Pkg$Inner;",
			old:  "old/Pkg",
			new:  "new/Pkg",
			want: "Lold/Pkg$Inner;",
		},
		{
			name: "generic signature, outer type",
			desc: "Ljava/util/List<Lold/Pkg;>;",
			old:  "old/Pkg",
			new:  "new/Pkg",
			want: "Ljava/util/List<Lnew/Pkg;>;",
		},
		{
			name: "generic signature, parameterized type itself",
			desc: "Lold/Pkg<Ljava/lang/String;>;",
			old:  "old/Pkg",
			new:  "new/Pkg",
			want: "Lnew/Pkg<Ljava/lang/String;>;",
		},
		{
			name: "no reference at all",
			desc: "(ILjava/lang/String;)V",
			old:  "old/Pkg",
			new:  "new/Pkg",
			want: "(ILjava/lang/String;)V",
		},
		{
			name: "dangling token kept verbatim",
			desc: "Lold/Pkg",
			old:  "old/Pkg",
			new:  "new/Pkg",
			want: "Lold/Pkg",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RenameDescriptor(tc.desc, tc.old, tc.new))
		})
	}
}

func TestRenameDescriptorMap(t *testing.T) {
	classnames := map[string]string{
		"com/foo/A": "org/bar/A",
		"com/foo/B": "org/bar/B",
	}

	got := RenameDescriptorMap("(Lcom/foo/A;Lcom/foo/C;)Lcom/foo/B;", classnames)
	assert.Equal(t, "(Lorg/bar/A;Lcom/foo/C;)Lorg/bar/B;", got)

	// single pass: a pair whose target is another pair's source cannot chain
	chained := RenameDescriptorMap("Lcom/a/A;", map[string]string{
		"com/a/A": "com/a/B",
		"com/a/B": "com/a/C",
	})
	assert.Equal(t, "Lcom/a/B;", chained)

	assert.Equal(t, "Lcom/foo/A;", RenameDescriptorMap("Lcom/foo/A;", nil))
}
