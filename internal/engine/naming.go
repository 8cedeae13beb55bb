package engine

import (
	"strconv"

	"github.com/bamsammich/txtcopy/internal/filter"
)

// Suffix is appended to every copied file name.
const Suffix = ".txt"

// OutputName returns the destination name for base at the given attempt.
// Attempt 0 is base+".txt"; attempt n>0 inserts "_n" between the stem and
// the original extension: index.php -> index_1.php.txt.
func OutputName(base string, attempt int) string {
	if attempt == 0 {
		return base + Suffix
	}
	stem, ext := filter.SplitExt(base)
	return stem + "_" + strconv.Itoa(attempt) + ext + Suffix
}
