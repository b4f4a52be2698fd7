// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package config

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strings"
)

const (
	horizontalWhitespace = " \t"
	keyBadChars          = "\r\n \t=#"
	valBadChars          = "\r\n"

	friendlyHeader = "# This is a huffpack server configuration file."
)

// ReadParams reads KEY=VALUE lines from r.  Blank lines and lines starting with '#' are skipped.
func ReadParams(r io.Reader) (map[string]string, error) {
	lines := bufio.NewScanner(r)
	unparsed := make(map[string]string)

	for lines.Scan() {
		line := strings.Trim(lines.Text(), horizontalWhitespace)
		if line == "" || line[0] == '#' {
			continue
		}

		equals := strings.IndexRune(line, '=')
		if equals == -1 {
			return nil, ErrSyntax
		}

		key := strings.Trim(line[:equals], horizontalWhitespace)
		val := strings.Trim(line[equals+1:], horizontalWhitespace)
		unparsed[key] = val
	}

	if scanError := lines.Err(); scanError != nil {
		return nil, scanError
	}

	return unparsed, nil
}

// LoadFile loads a configuration from path, with any settings in overrides taking precedence over those in
// the file.  An empty path loads only overrides on top of the defaults.
func LoadFile(path string, overrides map[string]string) (result *Config, err error) {
	unparsed := make(map[string]string)
	if path != "" {
		var file *os.File
		if file, err = os.Open(path); err != nil {
			return
		}
		defer file.Close()

		if unparsed, err = ReadParams(file); err != nil {
			return nil, err
		}
	}

	for key, val := range overrides {
		unparsed[key] = val
	}
	return Parse(unparsed)
}

func runeAt(s string, byteIndex int) rune {
	for _, r := range s[byteIndex:] {
		return r
	}

	return rune(0xfffd)
}

// SaveFile saves cfg to a new file named path.  The file must not already exist.
func (cfg Config) SaveFile(path string) (err error) {
	unparsed := cfg.Unparse()
	keys := make([]string, 0, len(unparsed))
	for key := range unparsed {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, 2+len(unparsed))
	lines = append(lines, friendlyHeader)
	for _, key := range keys {
		val := unparsed[key]
		if strings.IndexAny(key, keyBadChars) != -1 || strings.IndexAny(val, valBadChars) != -1 || strings.IndexRune(horizontalWhitespace, runeAt(val, 0)) != -1 {
			err = ErrSyntax
			return
		}
		lines = append(lines, key+"="+val)
	}
	lines = append(lines, "")
	content := strings.Join(lines, "\n")

	var file *os.File
	defer func() {
		if file != nil {
			if closeErr := file.Close(); closeErr != nil && err == nil {
				err = closeErr
			}

			if err != nil {
				_ = os.Remove(path)
			}
		}
	}()

	if file, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600); err != nil {
		return
	}

	if _, err = file.Write([]byte(content)); err != nil {
		return
	}

	if err = file.Sync(); err != nil {
		return
	}

	// Close happens in defer above.
	return nil
}
