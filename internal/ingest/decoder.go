package ingest

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"logingest/internal/constants"
	"logingest/internal/logger"
	apperrors "logingest/pkg/errors"
	"logingest/pkg/models"
)

// datePattern finds the enqueue date carried in a URL-like path segment,
// e.g. "http://queue.amazonaws.com/doc/2012-11-05/".
var datePattern = regexp.MustCompile(`doc/(\d{4}-\d{2}-\d{2})`)

// Decoder turns a raw ReceiveMessage response into a FieldRecord.
type Decoder struct {
	verifyBodyDigest bool
	logger           logger.Logger
}

func NewDecoder(verifyBodyDigest bool, log logger.Logger) *Decoder {
	return &Decoder{
		verifyBodyDigest: verifyBodyDigest,
		logger:           log,
	}
}

// Decode binds secret_key to the message's MD5OfBody, create_date to the
// enqueue date segment, and every member of the flat JSON body to a field.
// It either returns a record holding all required fields or a DECODE_ERROR.
func (d *Decoder) Decode(ctx context.Context, raw []byte) (*models.FieldRecord, error) {
	var resp receiveMessageResponse
	if err := xml.Unmarshal(raw, &resp); err != nil {
		return nil, apperrors.ErrDecode.WithCause(err).WithMessage("queue response is not a ReceiveMessage envelope")
	}

	messages := resp.Result.Messages
	if len(messages) == 0 {
		return nil, apperrors.ErrDecode.
			WithMessage("no message available in queue response").
			WithDetail("request_id", resp.Metadata.RequestID)
	}
	if len(messages) > 1 {
		d.logger.WarnwCtx(ctx, "Queue returned more than one message, decoding the first only",
			"count", len(messages),
			"request_id", resp.Metadata.RequestID,
		)
	}
	msg := messages[0]

	record := models.NewFieldRecord()
	record.MessageID = msg.MessageID
	record.ReceiptHandle = msg.ReceiptHandle

	secret := strings.TrimSpace(msg.MD5OfBody)
	if secret == "" {
		return nil, apperrors.ErrDecode.
			WithMessage("integrity digest MD5OfBody is absent").
			WithDetail("message_id", msg.MessageID)
	}
	record.Set(constants.FieldSecretKey, secret)

	createDate, err := findCreateDate(resp.XMLName.Space, msg)
	if err != nil {
		return nil, err
	}
	record.Set(constants.FieldCreateDate, createDate)

	if d.verifyBodyDigest {
		if err := verifyBodyDigest(msg.Body, secret); err != nil {
			return nil, err
		}
	}

	if err := decodeFlatBody(msg.Body, record); err != nil {
		return nil, err
	}

	if missing := record.Missing(models.RequiredFields...); len(missing) > 0 {
		return nil, apperrors.ErrDecode.
			WithMessage("message is missing required fields: %s", strings.Join(missing, ", ")).
			WithDetail("missing", missing)
	}

	d.logger.DebugwCtx(ctx, "Decoded queue message",
		"message_id", msg.MessageID,
		"fields", record.Len(),
	)
	return record, nil
}

func findCreateDate(namespace string, msg queueMessage) (string, error) {
	candidates := []string{namespace, msg.ReceiptHandle}
	for _, attr := range msg.Attributes {
		candidates = append(candidates, attr.Value)
	}
	for _, attr := range msg.MessageAttributes {
		candidates = append(candidates, attr.Value.StringValue)
	}

	for _, candidate := range candidates {
		match := datePattern.FindStringSubmatch(candidate)
		if match == nil {
			continue
		}
		if _, err := time.Parse(time.DateOnly, match[1]); err != nil {
			return "", apperrors.ErrDecode.WithCause(err).WithMessage("date segment %q is not a calendar date", match[1])
		}
		return match[1], nil
	}

	return "", apperrors.ErrDecode.WithMessage("enqueue date segment is absent")
}

func verifyBodyDigest(body, expected string) error {
	sum := md5.Sum([]byte(body))
	actual := hex.EncodeToString(sum[:])
	if !strings.EqualFold(actual, expected) {
		return apperrors.ErrDecode.
			WithMessage("body digest mismatch").
			WithDetail("expected", expected).
			WithDetail("actual", actual)
	}
	return nil
}

// decodeFlatBody reads the body as a single flat JSON object, token by token,
// so that member order survives. Nested values and null are rejected.
func decodeFlatBody(body string, record *models.FieldRecord) error {
	if strings.TrimSpace(body) == "" {
		return apperrors.ErrDecode.WithMessage("message body is empty")
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return bodyError(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return apperrors.ErrDecode.WithMessage("message body is not a JSON object")
	}

	seen := make(map[string]bool)
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return bodyError(err)
		}
		key, _ := tok.(string)
		switch {
		case key == "":
			return apperrors.ErrDecode.WithMessage("message body has an empty field name")
		case key == constants.FieldSecretKey || key == constants.FieldCreateDate:
			return apperrors.ErrDecode.WithMessage("message body sets reserved field %q", key)
		case seen[key]:
			return apperrors.ErrDecode.WithMessage("message body repeats field %q", key)
		}
		seen[key] = true

		tok, err = dec.Token()
		if err != nil {
			return bodyError(err)
		}
		value, err := scalarString(key, tok)
		if err != nil {
			return err
		}
		record.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return bodyError(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return apperrors.ErrDecode.WithMessage("message body has data after the closing brace")
	}
	return nil
}

func scalarString(key string, tok json.Token) (string, error) {
	switch v := tok.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", apperrors.ErrDecode.WithMessage("field %q is null", key)
	default:
		return "", apperrors.ErrDecode.WithMessage("field %q is not a scalar value", key)
	}
}

func bodyError(err error) error {
	return apperrors.ErrDecode.WithCause(fmt.Errorf("parse body: %w", err)).WithMessage("message body is not valid JSON")
}
