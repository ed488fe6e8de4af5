package util

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/exp/constraints"
)

// error

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

// Is. lets errors.Is match the code as well as the wrapped error
func (e *Error) Is(target error) bool {
	return e.code != nil && e.code == target
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

// ErrorCode. returns the code of err if it is (or wraps) a *Error, nil otherwise
func ErrorCode(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return nil
}

var (
	ErrBadParamInput = errors.New("given Param is not valid")
)

func DegreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func IsFinite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func ReverseG[T any](arr []T) []T {
	copyArr := make([]T, len(arr)) // should do on the copy )
	copy(copyArr, arr)
	for i, j := 0, len(copyArr)-1; i < j; i, j = i+1, j-1 {
		copyArr[i], copyArr[j] = copyArr[j], copyArr[i]
	}
	return copyArr
}

func ReverseInPlace[T any](arr []T) {
	for i, j := 0, len(arr)-1; i < j; i, j = i+1, j-1 {
		arr[i], arr[j] = arr[j], arr[i]
	}
}

func MaxG[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func ReadLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if !(errors.Is(err, io.EOF) && len(line) > 0) {
			return "", err
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}
