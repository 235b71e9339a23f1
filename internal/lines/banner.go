package lines

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

const (
	// DefaultWidth is TeX's stock max_print_line.
	DefaultWidth = 79

	// Some LuaTeX revisions wrap one column late.
	defectEngine      = "LuaTeX"
	defectWidth       = 80
	defectMaxRevision = 4277
)

// ErrUnsupportedRevision is returned for engine revisions past the known wrap defect range.
// The wrap width for those is unknown and guessing would misparse the log.
var ErrUnsupportedRevision = errors.New("unsupported engine revision, texlog needs an update")

//nolint:gochecknoglobals
var (
	bannerPattern   = regexp.MustCompile(`^This is (\S+), Version (\S+)`)
	revisionPattern = regexp.MustCompile(`\(rev (\d+)\)`)
)

// Banner is the engine identification found on the first log line.
type Banner struct {
	Engine   string
	Version  string
	Revision int // 0 when the banner carries none
}

// ParseBanner reads the engine banner. It returns false when line is not a TeX banner.
func ParseBanner(line string) (Banner, bool) {
	match := bannerPattern.FindStringSubmatch(line)
	if match == nil {
		return Banner{}, false
	}

	banner := Banner{Engine: match[1], Version: match[2]}

	if rev := revisionPattern.FindStringSubmatch(line); rev != nil {
		if n, err := strconv.Atoi(rev[1]); err == nil {
			banner.Revision = n
		}
	}

	return banner, true
}

// CountsRunes reports whether the engine wraps by characters rather than bytes.
func (b Banner) CountsRunes() bool {
	switch b.Engine {
	case "XeTeX", "LuaTeX", "LuaHBTeX", "LuajitTeX":
		return true
	}

	return false
}

// Width returns the physical line width the engine wraps at.
func (b Banner) Width() (int, error) {
	if b.Engine != defectEngine || b.Revision == 0 {
		return DefaultWidth, nil
	}

	if b.Revision > defectMaxRevision {
		return 0, fmt.Errorf("%w: %s rev %d (known up to %d)", ErrUnsupportedRevision, b.Engine, b.Revision, defectMaxRevision)
	}

	return defectWidth, nil
}
