package util

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

func EnsureOutputDir(dir string) error {
	return os.MkdirAll(dir, 0777)
}

func GatherAllMidiPaths(path string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			lower := strings.ToLower(s)
			if strings.HasSuffix(lower, ".mid") || strings.HasSuffix(lower, ".midi") {
				if maxNum == 0 || len(res) < maxNum {
					res = append(res, s)
				}
			}
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, errors.Wrap(err, "could not walk media dir")
	}
	return res, nil
}

// GetKeys returns the keys in ascending order.
func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := maps.Keys(m)
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func CreateBinary(filename string, data any) error {
	fmt.Printf("Creating binary for filename: %v\n", filename)
	buf := new(bytes.Buffer)
	encoder := gob.NewEncoder(buf)

	if err := encoder.Encode(data); err != nil {
		return errors.Wrapf(err, "could not encode %v", filename)
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0777); err != nil {
		return errors.Wrapf(err, "write failed for file %v", filename)
	}
	return nil
}

func ReadBinary[A any](path string) (A, error) {
	var data A
	f, err := os.Open(path)
	if err != nil {
		return data, errors.Wrap(err, "could not load binary file")
	}
	defer f.Close()

	decoder := gob.NewDecoder(f)
	if err := decoder.Decode(&data); err != nil {
		return data, errors.Wrap(err, "could not decode binary file")
	}
	return data, nil
}

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Integer](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

func Abs[A constraints.Signed](num A) A {
	if num < 0 {
		return -num
	}
	return num
}

// Average is 0 for an empty slice.
func Average[A constraints.Integer](nums []A) float64 {
	if len(nums) == 0 {
		return 0
	}
	var total float64
	for _, v := range nums {
		total += float64(v)
	}
	return total / float64(len(nums))
}

func GCD[A constraints.Integer](a, b A) A {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// GCDAll is 0 for an empty slice or a slice of zeros.
func GCDAll[A constraints.Integer](nums []A) A {
	var res A
	for _, v := range nums {
		res = GCD(res, v)
	}
	return res
}
