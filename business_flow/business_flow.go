// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"time"

	"github.com/amirphl/desa-ngasem/utils"
	"go.uber.org/zap"
)

// ClientMetadata identifies the caller behind an admin action in logs
type ClientMetadata struct {
	IPAddress string
	UserAgent string
	RequestID string
	SessionID string
	Endpoint  string
	Timeout   time.Duration
}

// ClientMetadataFrom collects the request values handlers attach to ctx; missing ones stay empty
func ClientMetadataFrom(ctx context.Context) ClientMetadata {
	var m ClientMetadata
	m.IPAddress, _ = ctx.Value(utils.IPAddressKey).(string)
	m.UserAgent, _ = ctx.Value(utils.UserAgentKey).(string)
	m.RequestID, _ = ctx.Value(utils.RequestIDKey).(string)
	m.SessionID, _ = ctx.Value(utils.SessionIDKey).(string)
	m.Endpoint, _ = ctx.Value(utils.EndpointKey).(string)
	m.Timeout, _ = ctx.Value(utils.TimeoutKey).(time.Duration)
	return m
}

// Fields renders the metadata as zap fields, skipping empty values
func (m ClientMetadata) Fields() []zap.Field {
	fields := make([]zap.Field, 0, 4)
	if m.RequestID != "" {
		fields = append(fields, zap.String("request_id", m.RequestID))
	}
	if m.SessionID != "" {
		fields = append(fields, zap.String("session_id", m.SessionID))
	}
	if m.IPAddress != "" {
		fields = append(fields, zap.String("ip", m.IPAddress))
	}
	if m.Endpoint != "" {
		fields = append(fields, zap.String("endpoint", m.Endpoint))
	}
	return fields
}
