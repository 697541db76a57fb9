package codes

import (
	"strings"
	"testing"
)

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     RenderRequest
		wantErr bool
	}{
		{name: "Valid", req: RenderRequest{Content: "https://example.com", Label: "Example"}},
		{name: "Trailing Newline", req: RenderRequest{Content: "x", Label: strings.Repeat("a\n", MaxLabelLines)}},
		{name: "Valid Font Size", req: RenderRequest{Content: "x", FontSize: 18}},
		{name: "Missing Content", req: RenderRequest{Label: "x"}, wantErr: true},
		{name: "Content Too Long", req: RenderRequest{Content: strings.Repeat("x", MaxContentLength+1)}, wantErr: true},
		{name: "Label Too Long", req: RenderRequest{Content: "x", Label: strings.Repeat("y", MaxLabelLength+1)}, wantErr: true},
		{name: "Too Many Lines", req: RenderRequest{Content: "x", Label: strings.Repeat("a\n", MaxLabelLines) + "a"}, wantErr: true},
		{name: "Too Many CR Lines", req: RenderRequest{Content: "x", Label: strings.Repeat("x\r", 40)}, wantErr: true},
		{name: "Too Many CRLF Lines", req: RenderRequest{Content: "x", Label: strings.Repeat("x\r\n", MaxLabelLines) + "x"}, wantErr: true},
		{name: "CRLF Lines At Limit", req: RenderRequest{Content: "x", Label: strings.Repeat("x\r\n", MaxLabelLines)}},
		{name: "Long Numeric Content", req: RenderRequest{Content: strings.Repeat("7", 4000)}},
		{name: "Font Size Too Small", req: RenderRequest{Content: "x", FontSize: 2}, wantErr: true},
		{name: "Font Size Too Large", req: RenderRequest{Content: "x", FontSize: 200}, wantErr: true},
		{name: "Negative Expiry", req: RenderRequest{Content: "x", ExpiresInDays: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
