package classfile

import "strings"

// Field and method descriptors embed class names as `L<name>;` tokens, and
// generic signatures additionally close a token with '<' before its type
// arguments. Renaming must replace whole tokens only: renaming com/foo/A
// must not touch Lcom/foo/AB; or Lcom/foo/A$Inner;.

// substituteClassNames rewrites every class-name token in s for which
// lookup returns a replacement.
func substituteClassNames(s string, lookup func(string) (string, bool)) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		if c != 'L' {
			b.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		for j < len(s) && s[j] != ';' && s[j] != '<' {
			j++
		}
		if j >= len(s) {
			// dangling token, keep verbatim
			b.WriteString(s[i:])
			break
		}
		name := s[i+1 : j]
		if repl, ok := lookup(name); ok {
			b.WriteByte('L')
			b.WriteString(repl)
		} else {
			b.WriteString(s[i:j])
		}
		b.WriteByte(s[j])
		i = j + 1
	}
	return b.String()
}

// RenameDescriptor rewrites references to oldName (internal form) into
// newName inside a descriptor or signature string.
func RenameDescriptor(desc, oldName, newName string) string {
	return substituteClassNames(desc, func(name string) (string, bool) {
		if name == oldName {
			return newName, true
		}
		return "", false
	})
}

// RenameDescriptorMap rewrites every class token found in classnames in a
// single pass. Unlike repeated RenameDescriptor calls, each token is looked
// up once, so overlapping pairs cannot chain.
func RenameDescriptorMap(desc string, classnames map[string]string) string {
	if len(classnames) == 0 {
		return desc
	}
	return substituteClassNames(desc, func(name string) (string, bool) {
		repl, ok := classnames[name]
		return repl, ok
	})
}
