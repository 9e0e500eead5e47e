package solid

import "strings"

// NormalizePath converts an archive entry name to fs.ValidPath form.
//
// Entry names are recorded by many tools, so NormalizePath:
//   - Folds backslashes to slashes: `docs\a.txt` → "docs/a.txt"
//   - Strips leading and trailing slashes: "/docs/" → "docs"
//   - Collapses repeated slashes: "docs//a.txt" → "docs/a.txt"
//   - Maps an empty name to ".": "" → "."
//
// "." and ".." elements are kept so that fs.ValidPath can reject them
// before an entry is written below a destination directory.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.Trim(p, "/")
	if p == "" {
		return "."
	}

	parts := strings.Split(p, "/")
	kept := parts[:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return "."
	}
	return strings.Join(kept, "/")
}
