// Package record defines questionnaire response records and reads them from
// line-oriented input.
package record

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// AnswerRecord is one subject's raw questionnaire response.
type AnswerRecord struct {
	Name    string `json:"name"`
	Answers string `json:"answers"`
}

// maxLineSize bounds a single input line. Answer strings are short, but the
// scanner default (64KiB) is too small for concatenated batch exports.
const maxLineSize = 1 << 20

// Reader yields AnswerRecords from input laid out as alternating name and
// answers lines.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{sc: sc}
}

// Next returns the next record, or io.EOF when the input is exhausted.
// A name line without a following answers line yields a record with empty
// answers.
func (r *Reader) Next() (AnswerRecord, error) {
	name, ok, err := r.readLine()
	if err != nil {
		return AnswerRecord{}, err
	}
	if !ok {
		return AnswerRecord{}, io.EOF
	}

	answers, _, err := r.readLine()
	if err != nil {
		return AnswerRecord{}, err
	}
	return AnswerRecord{Name: name, Answers: answers}, nil
}

func (r *Reader) readLine() (string, bool, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", false, fmt.Errorf("reading line %d: %w", r.line+1, err)
		}
		return "", false, nil
	}
	r.line++
	return strings.TrimSuffix(r.sc.Text(), "\r"), true, nil
}

// ReadAll reads every record from r.
func ReadAll(r io.Reader) ([]AnswerRecord, error) {
	rd := NewReader(r)
	var records []AnswerRecord
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}
