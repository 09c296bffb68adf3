package util

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

// CreateFile creates path, making any missing parent directories
func CreateFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

func SaveJson(path string, data interface{}) error {
	file, err := CreateFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	bs, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	_, err = file.Write(bs)
	return err
}

// Render is implemented by go-echarts pages and charts
type Render interface {
	Render(w io.Writer) error
}

// SaveRender writes a rendered chart page to path
func SaveRender(path string, r Render) error {
	file, err := CreateFile(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return r.Render(file)
}
