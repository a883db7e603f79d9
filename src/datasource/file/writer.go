package file

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
)

// WriteAtomic 写入临时文件后改名为 path
// 写入出错时不会替换已有文件; 监听者看到的总是完整文件
func WriteAtomic(path string, write func(w io.Writer) error) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) // 成功时无操作

	bw := bufio.NewWriter(f)
	werr := write(bw)
	if werr == nil {
		werr = bw.Flush()
	}
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	if cerr != nil {
		return cerr
	}
	return os.Rename(f.Name(), path)
}
