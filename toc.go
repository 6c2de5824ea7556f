package mdserve

import "strings"

// TOCOptions are the effective table of contents settings of one request.
type TOCOptions struct {
	StartingLevel int
	NestingLevel  int
	Header        string
	Footer        string
}

// ParseTOCDirective overlays a "start" or "start:nesting" directive onto the configured defaults. Parts that do
// not parse to a non-zero number keep their default. A nil or empty directive yields the defaults.
func ParseTOCDirective(directive *string, cfg *Config) TOCOptions {
	opts := TOCOptions{
		StartingLevel: cfg.TOC.Starting,
		NestingLevel:  cfg.TOC.Nesting,
		Header:        cfg.TOC.Header,
		Footer:        cfg.TOC.Footer,
	}

	if directive == nil || *directive == "" {
		return opts
	}

	start, nesting, found := strings.Cut(*directive, ":")
	if n := atoi(start); n != 0 {
		opts.StartingLevel = n
	}

	if found {
		if n := atoi(nesting); n != 0 {
			opts.NestingLevel = n
		}
	}

	return opts
}

// atoi parses the leading integer of s, ignoring leading white space and anything after the digits. It
// returns zero when there is no number.
func atoi(s string) int {
	s = strings.TrimLeft(s, " \t\n\v\f\r")

	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > 1<<20 {
			break
		}
	}

	if neg {
		return -n
	}
	return n
}
