package http_test

import (
	"bytes"
	"mime/multipart"
)

func newMultipart(buf *bytes.Buffer, field, name string, data []byte) string {
	mw := multipart.NewWriter(buf)
	fw, _ := mw.CreateFormFile(field, name)
	_, _ = fw.Write(data)
	_ = mw.Close()
	return mw.FormDataContentType()
}
