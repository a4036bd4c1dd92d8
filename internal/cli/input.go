package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/vcabel/safework/internal/model"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints a password prompt to w and reads a password
// from the user's terminal without echo. A newline is printed after
// the read to keep the UI tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetList prints a prompt to w and reads lines until an empty line is
// entered. Each line becomes one list element; leading and trailing
// whitespace is trimmed.
//
// Used for kick-off topics and identified risks.
func GetList(reader *bufio.Reader, prompt string, w io.Writer) ([]string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return nil, err
	}

	var items []string
	for {
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		items = append(items, line)
	}
	return items, nil
}

// GetAnswer prompts for one checklist answer and maps the reply onto the
// answer values: y/ok → OK, n/nok → NOK (with a follow-up reason prompt),
// anything else → not applicable.
func GetAnswer(reader *bufio.Reader, question string, w io.Writer) (model.Answer, string, error) {
	reply, err := GetSimpleText(reader, question+" [y/n/nvt]", w)
	if err != nil {
		return "", "", err
	}
	switch strings.ToLower(reply) {
	case "y", "yes", "ok", "ja":
		return model.AnswerOK, "", nil
	case "n", "no", "nok", "nee":
		reason, err := GetSimpleText(reader, "Reason", w)
		if err != nil {
			return "", "", err
		}
		return model.AnswerNOK, reason, nil
	default:
		return model.AnswerNotApplicable, "", nil
	}
}
