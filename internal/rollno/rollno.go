// Package rollno parses student roll numbers of the form YYYYBBB-NNN: the
// enrollment year, a three-letter branch code and a sequence number.
package rollno

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var ErrInvalid = errors.New("invalid roll number")

var pattern = regexp.MustCompile(`^(\d{4})([A-Z]{3})-(\d{3})$`)

// Academic years start in July.
const sessionStart = time.July

type Branch struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Years int    `json:"years"`
}

var branches = map[string]Branch{
	"BMS": {Code: "BMS", Name: "Management Studies", Years: 3},
	"BAF": {Code: "BAF", Name: "Accounting and Finance", Years: 3},
	"BBI": {Code: "BBI", Name: "Banking and Insurance", Years: 3},
	"BFM": {Code: "BFM", Name: "Financial Markets", Years: 3},
	"BMM": {Code: "BMM", Name: "Multimedia and Mass Communication", Years: 3},
	"BCA": {Code: "BCA", Name: "Computer Applications", Years: 3},
	"BSC": {Code: "BSC", Name: "Information Technology", Years: 3},
	"BCO": {Code: "BCO", Name: "Commerce", Years: 3},
}

// Branches lists the known branches ordered by code.
func Branches() []Branch {
	out := make([]Branch, 0, len(branches))
	for _, b := range branches {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func LookupBranch(code string) (Branch, bool) {
	b, ok := branches[strings.ToUpper(code)]
	return b, ok
}

type Number struct {
	Year   int
	Branch Branch
	Seq    int
}

// Parse is strict: surrounding spaces are trimmed but case is not folded.
func Parse(s string) (Number, error) {
	m := pattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Number{}, fmt.Errorf("%w: %q does not match YYYYBBB-NNN", ErrInvalid, s)
	}

	year, _ := strconv.Atoi(m[1])
	if year < 2000 {
		return Number{}, fmt.Errorf("%w: enrollment year %d", ErrInvalid, year)
	}

	branch, ok := branches[m[2]]
	if !ok {
		return Number{}, fmt.Errorf("%w: unknown branch %s", ErrInvalid, m[2])
	}

	seq, _ := strconv.Atoi(m[3])
	if seq == 0 {
		return Number{}, fmt.Errorf("%w: sequence must be positive", ErrInvalid)
	}

	return Number{Year: year, Branch: branch, Seq: seq}, nil
}

func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

func (n Number) String() string {
	return fmt.Sprintf("%04d%s-%03d", n.Year, n.Branch.Code, n.Seq)
}

// AcademicYear is 1 for the session starting in July of the enrollment year.
// Dates before that still count as first year. It returns 0 once the
// branch's programme length has been exceeded.
func (n Number) AcademicYear(now time.Time) int {
	y := now.Year() - n.Year
	if now.Month() >= sessionStart {
		y++
	}
	if y < 1 {
		y = 1
	}
	if n.Branch.Years > 0 && y > n.Branch.Years {
		return 0
	}
	return y
}

func (n Number) IsAlumnus(now time.Time) bool {
	return n.AcademicYear(now) == 0
}
