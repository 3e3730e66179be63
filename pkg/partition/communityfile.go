package partition

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseCommunityFile reads one integer community ID per line; line i (0-based)
// is the community of node "i". Surrounding whitespace is ignored, but every
// line must hold an integer.
func ParseCommunityFile(r io.Reader) (CommunityList, error) {
	return ReadCommunityFile(r, "")
}

// ReadCommunityFile is ParseCommunityFile with source used in error messages.
func ReadCommunityFile(r io.Reader, source string) (CommunityList, error) {
	list := make(CommunityList, 0)
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		c, err := strconv.Atoi(text)
		if err != nil {
			return nil, &FormatError{
				Source: source,
				Line:   lineNo,
				Reason: fmt.Sprintf("community %q is not an integer", text),
			}
		}
		list = append(list, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, &FormatError{Source: source, Reason: "read failed", Cause: err}
	}

	return list, nil
}

// LoadCommunityFile reads a community file from disk.
func LoadCommunityFile(path string) (CommunityList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FormatError{Source: path, Reason: "open failed", Cause: err}
	}
	defer f.Close()

	return ReadCommunityFile(f, path)
}

// WriteCommunityFile writes list in the format ParseCommunityFile reads.
func WriteCommunityFile(w io.Writer, list CommunityList) error {
	bw := bufio.NewWriter(w)
	for _, c := range list {
		if _, err := bw.WriteString(strconv.Itoa(c) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
