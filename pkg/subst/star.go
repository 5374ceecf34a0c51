package subst

// Star is the token Expand replaces.
const Star = "*"

// Lister returns the entry names of dir in the order they should appear.
type Lister func(dir string) ([]string, error)

// Expand replaces every element that is exactly "*" with the listing of
// the current directory. An empty listing removes the token. The listing
// is fetched once, and only if a "*" is present.
func Expand(words []string, list Lister) ([]string, error) {
	var names []string
	listed := false
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w != Star {
			out = append(out, w)
			continue
		}
		if !listed {
			var err error
			names, err = list(".")
			if err != nil {
				return nil, err
			}
			listed = true
		}
		out = append(out, names...)
	}
	return out, nil
}
