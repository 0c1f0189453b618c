package detect

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// LoadLabels reads the class labels from the given text file.  It should
// contain one label per line.
func LoadLabels(file string) ([]string, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, errors.Wrap(err, "error opening file")
	}

	defer f.Close()

	scanner := bufio.NewScanner(f)

	var labels []string

	// read and trim each line
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		labels = append(labels, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading file")
	}

	return labels, nil
}

// LabelName returns the label for class, falling back to the class number
// when labels do not cover it
func LabelName(labels []string, class int) string {

	if class >= 0 && class < len(labels) && labels[class] != "" {
		return labels[class]
	}

	return fmt.Sprintf("class%d", class)
}
