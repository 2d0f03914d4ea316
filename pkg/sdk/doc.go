// Package surfcoach is a typed HTTP client for the surfcoach chatbot API.
//
// Usage:
//
//	client := surfcoach.New("http://localhost:8080", surfcoach.WithAPIKey("secret"))
//	res, err := client.Chat(ctx, "내일 죽도 파도 어때?")
package surfcoach
