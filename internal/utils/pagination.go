package utils

import (
	"strconv"
	"strings"

	apierrors "github.com/yukikurage/user-task-api/internal/errors"
)

const (
	MinTop = 1
	MaxTop = 100
)

const (
	MsgInvalidSkip = "El parámetro skip debe ser un número positivo"
	MsgInvalidTop  = "El parámetro top debe ser un número entre 1 y 100"
)

// Pagination holds validated skip/top bounds
type Pagination struct {
	Skip int
	Top  int
}

// ParsePagination parses the raw skip and top parameters.
// skip must be >= 0 and top must lie in [MinTop, MaxTop]; anything that is
// not a base-10 integer is rejected as out of range.
func ParsePagination(skip, top string) (Pagination, error) {
	skipNum, err := strconv.Atoi(strings.TrimSpace(skip))
	if err != nil || skipNum < 0 {
		return Pagination{}, apierrors.Validation(MsgInvalidSkip)
	}

	topNum, err := strconv.Atoi(strings.TrimSpace(top))
	if err != nil || topNum < MinTop || topNum > MaxTop {
		return Pagination{}, apierrors.Validation(MsgInvalidTop)
	}

	return Pagination{Skip: skipNum, Top: topNum}, nil
}
