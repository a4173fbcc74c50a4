package mintlify

import (
	"strings"
)

// writeRequestExamples emits the cURL, Python, JavaScript and Go samples. All four embed the
// same payload; the Go sample keeps it on one line inside a raw string literal.
func writeRequestExamples(b *strings.Builder, method, url string, example []byte) {
	pretty := prettyJSON(example)
	oneLine := compactJSON(example)

	r := strings.NewReplacer(
		"{{METHOD}}", method,
		"{{METHOD_LOWER}}", strings.ToLower(method),
		"{{URL}}", url,
		"{{PAYLOAD}}", pretty,
		"{{PAYLOAD_LINE}}", oneLine,
	)
	b.WriteString(r.Replace(requestExampleTemplate))
}

const requestExampleTemplate = "## Request Example\n\n<CodeGroup>\n\n" +
	"```bash cURL\n" +
	`curl -X {{METHOD}} "{{URL}}" \
  -H "Authorization: Bearer YOUR_API_KEY" \
  -H "Content-Type: application/json" \
  -d '{{PAYLOAD}}'
` + "```\n\n" +
	"```python Python\n" +
	`import requests
import json

url = "{{URL}}"
headers = {
    "Authorization": "Bearer YOUR_API_KEY",
    "Content-Type": "application/json"
}

data = {{PAYLOAD}}

response = requests.{{METHOD_LOWER}}(url, headers=headers, json=data)
result = response.json()
print(json.dumps(result, indent=2))
` + "```\n\n" +
	"```javascript JavaScript\n" +
	`const url = "{{URL}}";
const headers = {
  "Authorization": "Bearer YOUR_API_KEY",
  "Content-Type": "application/json"
};

const data = {{PAYLOAD}};

fetch(url, {
  method: "{{METHOD}}",
  headers: headers,
  body: JSON.stringify(data)
})
  .then(response => response.json())
  .then(data => console.log(data))
  .catch(error => console.error("Error:", error));
` + "```\n\n" +
	"```go Go\n" +
	`package main

import (
    "bytes"
    "fmt"
    "io"
    "net/http"
)

func main() {
    url := "{{URL}}"

    payload := []byte(` + "`{{PAYLOAD_LINE}}`" + `)

    req, _ := http.NewRequest("{{METHOD}}", url, bytes.NewBuffer(payload))
    req.Header.Set("Authorization", "Bearer YOUR_API_KEY")
    req.Header.Set("Content-Type", "application/json")

    client := &http.Client{}
    resp, err := client.Do(req)
    if err != nil {
        panic(err)
    }
    defer resp.Body.Close()

    body, _ := io.ReadAll(resp.Body)
    fmt.Println(string(body))
}
` + "```\n\n</CodeGroup>\n\n"
