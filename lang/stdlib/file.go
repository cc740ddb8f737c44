package stdlib

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/tjlang/lang/value"
)

func fileModule() module {
	return module{
		"read_to_string":     readToString,
		"write_string":       writeString(os.O_CREATE | os.O_TRUNC | os.O_WRONLY),
		"append_string":      writeString(os.O_CREATE | os.O_APPEND | os.O_WRONLY),
		"exists":             stat(func(fs.FileInfo) bool { return true }),
		"is_file":            stat(func(fi fs.FileInfo) bool { return fi.Mode().IsRegular() }),
		"is_dir":             stat(fs.FileInfo.IsDir),
		"delete":             pathOp(os.Remove),
		"create_dir":         pathOp(func(p string) error { return os.Mkdir(p, 0o755) }),
		"create_dir_all":     pathOp(func(p string) error { return os.MkdirAll(p, 0o755) }),
		"list_dir":           listDir,
		"size":               size,
		"extension":          pathPart(extension),
		"filename":           pathPart(filepath.Base),
		"stem":               pathPart(stem),
		"parent":             pathPart(filepath.Dir),
		"join":               join,
		"absolute_path":      absolutePath,
		"current_dir":        dir(os.Getwd),
		"home_dir":           dir(os.UserHomeDir),
		"temp_dir":           dir(func() (string, error) { return os.TempDir(), nil }),
		"path_list":          pathList(nil),
		"path_list_existing": pathList(isDir),
	}
}

func ioError(c *Call, err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return failf(ErrIO, "%s: %s %s: %v", c.qualified(), pe.Op, pe.Path, pe.Err)
	}

	return failf(ErrIO, "%s: %v", c.qualified(), err)
}

func readToString(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	path := a.str()

	if err := a.done(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError(c, err)
	}

	return value.Str(b), nil
}

func writeString(flag int) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(2, 2)
		path, content := a.str(), a.str()

		if err := a.done(); err != nil {
			return nil, err
		}

		f, err := os.OpenFile(path, flag, 0o644)
		if err != nil {
			return nil, ioError(c, err)
		}

		_, err = f.WriteString(content)
		if cerr := f.Close(); err == nil {
			err = cerr
		}

		if err != nil {
			return nil, ioError(c, err)
		}

		return unit()
	}
}

func stat(pred func(fs.FileInfo) bool) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(1, 1)
		path := a.str()

		if err := a.done(); err != nil {
			return nil, err
		}

		fi, err := os.Stat(path)

		return value.Bool(err == nil && pred(fi)), nil
	}
}

func isDir(path string) bool {
	fi, err := os.Stat(path)

	return err == nil && fi.IsDir()
}

func pathOp(op func(string) error) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(1, 1)
		path := a.str()

		if err := a.done(); err != nil {
			return nil, err
		}

		if err := op(path); err != nil {
			return nil, ioError(c, err)
		}

		return unit()
	}
}

func listDir(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	path := a.str()

	if err := a.done(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, ioError(c, err)
	}

	out := value.NewArray()
	for _, e := range entries {
		out.Elems = append(out.Elems, value.Str(e.Name()))
	}

	return out, nil
}

func size(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	path := a.str()

	if err := a.done(); err != nil {
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, ioError(c, err)
	}

	return value.Int(fi.Size()), nil
}

func extension(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

func stem(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

func pathPart(part func(string) string) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(1, 1)
		path := a.str()

		if err := a.done(); err != nil {
			return nil, err
		}

		return value.Str(part(path)), nil
	}
}

func join(c *Call) (value.Value, error) {
	a := c.expect(1, -1)

	var parts []string
	for a.more() {
		parts = append(parts, a.str())
	}

	if err := a.done(); err != nil {
		return nil, err
	}

	return value.Str(filepath.Join(parts...)), nil
}

func absolutePath(c *Call) (value.Value, error) {
	a := c.expect(1, 1)
	path := a.str()

	if err := a.done(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ioError(c, err)
	}

	return value.Str(abs), nil
}

func dir(get func() (string, error)) Func {
	return func(c *Call) (value.Value, error) {
		if err := c.expect(0, 0).done(); err != nil {
			return nil, err
		}

		d, err := get()
		if err != nil {
			return nil, ioError(c, err)
		}

		return value.Str(d), nil
	}
}

// pathList prepends directories to a path-list string such as $PATH,
// removing duplicates. A non-nil keep drops prefixes it rejects.
func pathList(keep func(string) bool) Func {
	return func(c *Call) (value.Value, error) {
		a := c.expect(1, -1)
		subject := a.str()

		var prefix []string
		for a.more() {
			prefix = append(prefix, a.str())
		}

		if err := a.done(); err != nil {
			return nil, err
		}

		delim := string(os.PathListSeparator)

		if keep == nil {
			return value.Str(mung.Make(
				mung.WithSubjectItems(subject),
				mung.WithDelim(delim),
				mung.WithPrefixItems(prefix...),
			).String()), nil
		}

		return value.Str(mung.Make(
			mung.WithSubjectItems(subject),
			mung.WithDelim(delim),
			mung.WithPrefixItems(prefix...),
			mung.WithFilter(keep),
		).String()), nil
	}
}
