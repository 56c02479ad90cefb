package ingest

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/xml"
	"fmt"

	"logingest/internal/logger"
	"logingest/pkg/models"
)

const (
	testNamespace = "http://queue.amazonaws.com/doc/2024-05-01/"
	testDigest    = "abc123"
	testBody      = `{"user_id":"42","device_type":"ios","ip":"1.2.3.4","device_id":"dev-9","locale":"en-US","app_version":"3.1.2"}`
)

type testMessage struct {
	ID            string
	ReceiptHandle string
	MD5OfBody     string
	Body          string
	Attributes    map[string]string
}

func defaultMessage() testMessage {
	return testMessage{
		ID:            "6b1a6a5e-0d36-4d1b-9c1c-1f2f3a4b5c6d",
		ReceiptHandle: "rh-1",
		MD5OfBody:     testDigest,
		Body:          testBody,
	}
}

func escape(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

func buildResponse(namespace string, msgs ...testMessage) []byte {
	var b bytes.Buffer
	if namespace != "" {
		fmt.Fprintf(&b, `<?xml version="1.0"?><ReceiveMessageResponse xmlns="%s"><ReceiveMessageResult>`, namespace)
	} else {
		b.WriteString(`<?xml version="1.0"?><ReceiveMessageResponse><ReceiveMessageResult>`)
	}
	for _, m := range msgs {
		b.WriteString("<Message>")
		fmt.Fprintf(&b, "<MessageId>%s</MessageId>", escape(m.ID))
		fmt.Fprintf(&b, "<ReceiptHandle>%s</ReceiptHandle>", escape(m.ReceiptHandle))
		if m.MD5OfBody != "" {
			fmt.Fprintf(&b, "<MD5OfBody>%s</MD5OfBody>", escape(m.MD5OfBody))
		}
		fmt.Fprintf(&b, "<Body>%s</Body>", escape(m.Body))
		for name, value := range m.Attributes {
			fmt.Fprintf(&b, "<Attribute><Name>%s</Name><Value>%s</Value></Attribute>", escape(name), escape(value))
		}
		b.WriteString("</Message>")
	}
	b.WriteString(`</ReceiveMessageResult><ResponseMetadata><RequestId>req-1</RequestId></ResponseMetadata></ReceiveMessageResponse>`)
	return b.Bytes()
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

var testFields = [][2]string{
	{"secret_key", testDigest},
	{"create_date", "2024-05-01"},
	{"user_id", "42"},
	{"device_type", "ios"},
	{"ip", "1.2.3.4"},
	{"device_id", "dev-9"},
	{"locale", "en-US"},
	{"app_version", "3.1.2"},
}

func testRecord() *models.FieldRecord {
	return testRecordWithout()
}

func testRecordWithout(omit ...string) *models.FieldRecord {
	skip := make(map[string]bool, len(omit))
	for _, name := range omit {
		skip[name] = true
	}
	r := models.NewFieldRecord()
	r.MessageID = "msg-1"
	r.ReceiptHandle = "rh-1"
	for _, f := range testFields {
		if !skip[f[0]] {
			r.Set(f[0], f[1])
		}
	}
	return r
}

type stubSource struct {
	body  []byte
	err   error
	calls int
}

func (s *stubSource) Receive(ctx context.Context) ([]byte, error) {
	s.calls++
	return s.body, s.err
}

func newTestPipeline(src Source) *Pipeline {
	log := logger.NopLogger()
	return NewPipeline(src, NewDecoder(false, log), log)
}
