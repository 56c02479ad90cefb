package ingest

import "encoding/xml"

// receiveMessageResponse mirrors the SQS query API ReceiveMessage reply.
// The element names match regardless of the xmlns the queue declares.
type receiveMessageResponse struct {
	XMLName  xml.Name             `xml:"ReceiveMessageResponse"`
	Result   receiveMessageResult `xml:"ReceiveMessageResult"`
	Metadata responseMetadata     `xml:"ResponseMetadata"`
}

type receiveMessageResult struct {
	Messages []queueMessage `xml:"Message"`
}

type responseMetadata struct {
	RequestID string `xml:"RequestId"`
}

type queueMessage struct {
	MessageID         string             `xml:"MessageId"`
	ReceiptHandle     string             `xml:"ReceiptHandle"`
	MD5OfBody         string             `xml:"MD5OfBody"`
	Body              string             `xml:"Body"`
	Attributes        []messageAttribute `xml:"Attribute"`
	MessageAttributes []userAttribute    `xml:"MessageAttribute"`
}

type messageAttribute struct {
	Name  string `xml:"Name"`
	Value string `xml:"Value"`
}

type userAttribute struct {
	Name  string             `xml:"Name"`
	Value userAttributeValue `xml:"Value"`
}

type userAttributeValue struct {
	StringValue string `xml:"StringValue"`
	DataType    string `xml:"DataType"`
}
