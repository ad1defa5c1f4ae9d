package log

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/chamilad/trashbin/internal/env"
	"github.com/mattn/go-isatty"
	"github.com/nxadm/tail"
)

// Logs displays debug logs either by dumping existing content or following
// new entries as they are written.
func Logs(w io.Writer, live bool) error {
	if live {
		return tailLiveLogs(w)
	}
	return showExistingLogs(w)
}

func tailLiveLogs(w io.Writer) error {
	shouldFollow := isatty.IsTerminal(os.Stdout.Fd())
	tailConfig := tail.Config{
		ReOpen: shouldFollow,
		Follow: shouldFollow,
		Poll:   true,
		Logger: tail.DiscardingLogger,
		Location: &tail.SeekInfo{
			Offset: 0,
			Whence: io.SeekEnd,
		},
	}

	t, err := tail.TailFile(env.TRASH_LOG_PATH, tailConfig)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("log file does not exist: try running some commands first")
		}
		return err
	}

	for line := range t.Lines {
		if line.Err != nil {
			return line.Err
		}
		fmt.Fprintln(w, line.Text)
	}
	return nil
}

func showExistingLogs(w io.Writer) error {
	file, err := os.Open(env.TRASH_LOG_PATH)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("log file does not exist: try running some commands first")
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fmt.Fprintln(w, scanner.Text())
	}
	return scanner.Err()
}
