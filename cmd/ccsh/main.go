package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DylanMcBean/CounterChaChaStreamHash/ccsh"
	"github.com/DylanMcBean/CounterChaChaStreamHash/types"
	"github.com/DylanMcBean/CounterChaChaStreamHash/utils"
)

type fileDigest struct {
	File   string     `json:"file"`
	Size   int64      `json:"size"`
	Digest types.Hash `json:"digest"`
}

func hashInput(path string) (d fileDigest, err error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return d, err
		}
		defer func() {
			_ = f.Close()
		}()
		r = f
	}

	// Fill a BlockSize-aligned buffer before each Update so the streamed
	// digest matches a single Update over the whole input, even on pipes
	// that return short reads.
	var h ccsh.Hasher
	var total int64
	buf := make([]byte, 1024*ccsh.BlockSize)
	for {
		n, err := io.ReadFull(r, buf)
		h.Update(buf[:n])
		total += int64(n)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return d, err
		}
	}

	return fileDigest{File: path, Size: total, Digest: h.Sum()}, nil
}

func runCheck(path string) error {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() {
			_ = f.Close()
		}()
		r = f
	}

	var failed int
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		want, name, ok := strings.Cut(line, "  ")
		if !ok {
			return fmt.Errorf("malformed checksum line %q", line)
		}
		expected, err := types.HashFromString(want)
		if err != nil {
			return fmt.Errorf("malformed digest for %q: %w", name, err)
		}
		d, err := hashInput(name)
		if err != nil {
			utils.Errorf("check", "%s: %s", name, err)
			failed++
			continue
		}
		if d.Digest != expected {
			fmt.Printf("%s: FAILED\n", name)
			utils.Debugf("check", "%s: expected %s, got %s", name, expected, d.Digest)
			failed++
		} else {
			fmt.Printf("%s: OK\n", name)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d computed checksum(s) did NOT match", failed)
	}
	return nil
}

func main() {
	jsonFlag := flag.Bool("json", false, "emit digests as a JSON array")
	checkFlag := flag.String("check", "", "verify digests from the given checksum file ('-' for stdin)")
	verboseFlag := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *verboseFlag {
		utils.GlobalLogLevel |= utils.LogLevelNotice | utils.LogLevelDebug
	}

	if *checkFlag != "" {
		if err := runCheck(*checkFlag); err != nil {
			utils.Fatalf("%s", err)
		}
		return
	}

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	digests := make([]fileDigest, 0, len(paths))
	for _, path := range paths {
		d, err := hashInput(path)
		if err != nil {
			utils.Fatalf("%s: %s", path, err)
		}
		utils.Debugf("hash", "%s: %d bytes", d.File, d.Size)
		digests = append(digests, d)
	}

	if *jsonFlag {
		buf, err := utils.MarshalJSONIndent(digests, "  ")
		if err != nil {
			utils.Fatalf("%s", err)
		}
		fmt.Printf("%s\n", buf)
		return
	}

	for _, d := range digests {
		fmt.Printf("%s  %s\n", d.Digest, d.File)
	}
}
