package integration

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sjianjun/charsetconv"
	"github.com/sjianjun/charsetconv/bson"
	"github.com/sjianjun/charsetconv/json"
	"github.com/sjianjun/charsetconv/msgpack"
	codectest "github.com/sjianjun/charsetconv/testing"
	"github.com/sjianjun/charsetconv/xml"
	"github.com/sjianjun/charsetconv/yaml"
)

var chapter = codectest.Chapter{
	ID:    42,
	Title: codectest.ChineseText,
	Body:  strings.Repeat("这是一段用于测试的正文。", 8),
}

// newServer serves chapter in every supported shape.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	jsonDoc, err := json.New().Marshal(chapter)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	yamlDoc, err := yaml.New().Marshal(chapter)
	if err != nil {
		t.Fatalf("yaml marshal: %v", err)
	}
	msgpackDoc, err := msgpack.New().Marshal(chapter)
	if err != nil {
		t.Fatalf("msgpack marshal: %v", err)
	}
	bsonDoc, err := bson.New().Marshal(chapter)
	if err != nil {
		t.Fatalf("bson marshal: %v", err)
	}
	xmlDoc := `<?xml version="1.0" encoding="GB2312"?>` +
		`<chapter><id>42</id><title>` + chapter.Title + `</title><body>` + chapter.Body + `</body></chapter>`

	page := codectest.HTMLPage(
		`<meta http-equiv="Content-Type" content="text/html; charset=gb2312">`,
		codectest.ChineseText,
	)

	routes := map[string]struct {
		contentType string
		body        []byte
	}{
		"/chapter.json":    {"application/json; charset=gbk", codectest.GB2312(string(jsonDoc))},
		"/chapter.xml":     {"text/xml; charset=gb2312", codectest.GB2312(xmlDoc)},
		"/chapter.yaml":    {"application/yaml", yamlDoc},
		"/chapter.msgpack": {"application/msgpack", msgpackDoc},
		"/chapter.bson":    {"application/bson", bsonDoc},
		"/page.html":       {"text/html", codectest.GB2312(page)},
		"/page.sjis":       {"text/plain; charset=Shift_JIS", codectest.ShiftJIS(codectest.JapaneseText)},
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", route.contentType)
		_, _ = w.Write(route.body)
	}))
}

func newConverter() *charsetconv.Converter {
	return charsetconv.NewConverter(json.New(),
		charsetconv.WithCodec(xml.New()),
		charsetconv.WithCodec(yaml.New()),
		charsetconv.WithCodec(msgpack.New()),
		charsetconv.WithCodec(bson.New()),
	)
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp
}

func TestConvertResponse_EveryCodec(t *testing.T) {
	srv := newServer(t)
	defer srv.Close()
	c := newConverter()

	for _, path := range []string{"/chapter.json", "/chapter.xml", "/chapter.yaml", "/chapter.msgpack", "/chapter.bson"} {
		t.Run(path, func(t *testing.T) {
			got, err := charsetconv.ConvertResponse[codectest.Chapter](context.Background(), c, get(t, srv.URL+path))
			if err != nil {
				t.Fatalf("ConvertResponse() error: %v", err)
			}
			if *got != chapter {
				t.Errorf("ConvertResponse() = %+v, want %+v", *got, chapter)
			}
		})
	}
}

func TestConvertResponse_MetaDeclared(t *testing.T) {
	srv := newServer(t)
	defer srv.Close()

	resp := get(t, srv.URL+"/page.html")
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	d := charsetconv.NewDecoder()
	res, err := d.Resolve(context.Background(), body, resp.Header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Stage != charsetconv.StageMeta {
		t.Errorf("Stage = %q, want meta", res.Stage)
	}
	if !strings.Contains(res.Text, codectest.ChineseText) {
		t.Errorf("Text = %q, want it to contain %q", res.Text, codectest.ChineseText)
	}
}

func TestConvertResponse_HeaderDeclared(t *testing.T) {
	srv := newServer(t)
	defer srv.Close()

	got, err := charsetconv.ConvertResponse[string](context.Background(), newConverter(), get(t, srv.URL+"/page.sjis"))
	if err != nil {
		t.Fatalf("ConvertResponse() error: %v", err)
	}
	if *got != codectest.JapaneseText {
		t.Errorf("ConvertResponse() = %q, want %q", *got, codectest.JapaneseText)
	}
}

func TestConvertResponse_Sniffed(t *testing.T) {
	srv := newServer(t)
	defer srv.Close()

	// The YAML route carries no charset and no markup, so chardet decides.
	got, err := charsetconv.ConvertResponse[string](context.Background(), newConverter(), get(t, srv.URL+"/chapter.yaml"))
	if err != nil {
		t.Fatalf("ConvertResponse() error: %v", err)
	}
	if !strings.Contains(*got, chapter.Body) {
		t.Errorf("ConvertResponse() = %q, want it to contain the chapter body", *got)
	}
}
