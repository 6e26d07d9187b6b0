package attack

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{Mode: BruteForce, Encoding: Plain, Target: "x", Ceiling: 1}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantErr   error
		wantField string
	}{
		{"valid brute force", func(c *Config) {}, nil, ""},
		{"valid dictionary", func(c *Config) {
			c.Mode = Dictionary
			c.Wordlist = []string{"", "word"}
		}, nil, ""},
		{"empty target", func(c *Config) { c.Target = "" }, ErrEmptyTarget, "target"},
		{"zero ceiling", func(c *Config) { c.Ceiling = 0 }, ErrInvalidCeiling, "ceiling"},
		{"negative ceiling", func(c *Config) { c.Ceiling = -5 }, ErrInvalidCeiling, "ceiling"},
		{"dictionary without wordlist", func(c *Config) { c.Mode = Dictionary }, ErrEmptyWordlist, "wordlist"},
		{"dictionary with blank wordlist", func(c *Config) {
			c.Mode = Dictionary
			c.Wordlist = []string{"  ", "\t", ""}
		}, ErrEmptyWordlist, "wordlist"},
		{"unknown mode", func(c *Config) { c.Mode = Mode(7) }, ErrUnknownMode, "mode"},
		{"unknown encoding", func(c *Config) { c.Encoding = Encoding(7) }, ErrUnknownEncoding, "encoding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want to match ErrInvalidConfig", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.wantField {
				t.Errorf("ConfigError field = %v, want %q", ce, tt.wantField)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"dictionary", Dictionary, false},
		{"Dictionary", Dictionary, false},
		{"dict", Dictionary, false},
		{"bruteforce", BruteForce, false},
		{"brute-force", BruteForce, false},
		{"BRUTE_FORCE", BruteForce, false},
		{" brute ", BruteForce, false},
		{"rainbow", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownMode) {
				t.Errorf("ParseMode(%q) error = %v, want ErrUnknownMode", tt.input, err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		input   string
		want    Encoding
		wantErr bool
	}{
		{"plain", Plain, false},
		{"PLAIN", Plain, false},
		{"hashed", Hashed, false},
		{"hash", Hashed, false},
		{"sha256", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseEncoding(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEncoding(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseEncoding(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseCeiling(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"10000", 10000, false},
		{" 42 ", 42, false},
		{"1", 1, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"ten", 0, true},
		{"", 0, true},
		{"12abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseCeiling(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCeiling(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrInvalidCeiling) {
			t.Errorf("ParseCeiling(%q) error = %v, want ErrInvalidCeiling", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseCeiling(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestMode_TextRoundTrip(t *testing.T) {
	type payload struct {
		Mode     Mode     `json:"mode"`
		Encoding Encoding `json:"encoding"`
	}
	data, err := json.Marshal(payload{Mode: BruteForce, Encoding: Hashed})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"mode":"bruteforce","encoding":"hashed"}` {
		t.Errorf("Marshal = %s", data)
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"mode":"brute-force","encoding":"plain"}`), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.Mode != BruteForce || p.Encoding != Plain {
		t.Errorf("Unmarshal = %+v", p)
	}

	if err := json.Unmarshal([]byte(`{"mode":"nope"}`), &p); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestResult_JSONAndMillis(t *testing.T) {
	res := Result{Cracked: true, Match: "abc", Attempts: 3, Elapsed: 2345 * time.Millisecond}
	if res.ElapsedMillis() != 2345 {
		t.Errorf("ElapsedMillis = %d, want 2345", res.ElapsedMillis())
	}
	data, _ := json.Marshal(res)
	if strings.Contains(string(data), "Elapsed") {
		t.Errorf("Elapsed should not be serialized directly: %s", data)
	}
	data, _ = json.Marshal(Result{Attempts: 9})
	if strings.Contains(string(data), "match") {
		t.Errorf("empty match should be omitted: %s", data)
	}
}

func TestMode_Label(t *testing.T) {
	if Dictionary.Label() != "dictionary" || BruteForce.Label() != "brute-force" {
		t.Errorf("labels = %q, %q", Dictionary.Label(), BruteForce.Label())
	}
}
