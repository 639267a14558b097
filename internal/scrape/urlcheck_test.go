package scrape

import "testing"

func TestCheckFetchURLRejections(t *testing.T) {
	cases := map[string]string{
		"empty":             "",
		"bad scheme":        "ftp://example.com/file",
		"file scheme":       "file:///etc/passwd",
		"no host":           "https://",
		"localhost":         "http://localhost:8080/admin",
		"localhost suffix":  "http://db.localhost/",
		"internal suffix":   "http://vault.internal/secrets",
		"loopback ip":       "http://127.0.0.1/",
		"private ten":       "http://10.1.2.3/",
		"private rfc1918":   "http://192.168.1.1/router",
		"link local":        "http://169.254.169.254/latest/meta-data",
		"carrier grade nat": "http://100.64.0.1/",
		"ipv6 loopback":     "http://[::1]/",
	}
	for name, url := range cases {
		if err := checkFetchURL(url); err == nil {
			t.Fatalf("%s (%s): expected rejection", name, url)
		}
	}
}

func TestCheckFetchURLAllowsPublicIP(t *testing.T) {
	// Literal public IPs skip DNS, so this stays offline.
	if err := checkFetchURL("https://93.184.216.34/"); err != nil {
		t.Fatalf("public ip rejected: %v", err)
	}
}
