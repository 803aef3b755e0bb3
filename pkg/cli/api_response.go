package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/pretty"
)

type APIResponse interface {
	Print(w io.Writer) error
	Err() error
}

var _ APIResponse = &CommonAPIResponse{}

type CommonAPIResponse struct {
	StatusCode  int    `json:"statusCode"`
	Body        string `json:"body"`
	Error       error  `json:"error"`
	contentType string
}

func NewAPIResponse(resp *http.Response, err error) APIResponse {
	apiRes := &CommonAPIResponse{
		Error: err,
	}
	if resp == nil {
		return apiRes
	}

	apiRes.StatusCode = resp.StatusCode
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Errorf("failed to parse body: %s", err.Error())
		return apiRes
	}
	apiRes.Body = string(out)
	apiRes.contentType = strings.Split(resp.Header.Get("Content-Type"), ";")[0]
	return apiRes
}

func (resp *CommonAPIResponse) Err() error {
	return resp.Error
}

func (resp *CommonAPIResponse) Print(w io.Writer) error {
	if resp.Error != nil {
		_, err := fmt.Fprintln(w, resp.Error.Error())
		return err
	}
	if len(resp.Body) == 0 {
		return nil
	}

	out := resp.Body
	if resp.contentType == "application/json" {
		colored, err := colorJSON([]byte(resp.Body))
		if err != nil {
			return err
		}
		out = colored
	}

	_, err := fmt.Fprintln(w, strings.TrimRight(out, "\n"))
	return err
}

func colorJSON(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "    "); err != nil {
		return "", err
	}
	return string(pretty.Color(buf.Bytes(), nil)), nil
}
