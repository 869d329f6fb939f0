// Package llmtest builds chat completion fixtures the way the API returns them.
package llmtest

import (
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v3"
)

// Completion decodes raw chat completion JSON, panicking on bad fixtures.
func Completion(raw string) *openai.ChatCompletion {
	var c openai.ChatCompletion
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		panic(fmt.Sprintf("llmtest: bad completion fixture: %v", err))
	}
	return &c
}

// Text is a completion whose single choice carries content.
func Text(content string) *openai.ChatCompletion {
	body, _ := json.Marshal(content)
	return Completion(fmt.Sprintf(`{
		"id": "chatcmpl-text",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "gpt-3.5-turbo",
		"choices": [{
			"index": 0,
			"finish_reason": "stop",
			"message": {"role": "assistant", "content": %s, "refusal": ""}
		}],
		"usage": {"prompt_tokens": 5, "completion_tokens": 7, "total_tokens": 12}
	}`, body))
}

// ToolCall is a completion whose single choice calls function name with args.
func ToolCall(name, args string) *openai.ChatCompletion {
	argsJSON, _ := json.Marshal(args)
	return Completion(fmt.Sprintf(`{
		"id": "chatcmpl-tool",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "gpt-3.5-turbo",
		"choices": [{
			"index": 0,
			"finish_reason": "stop",
			"message": {
				"role": "assistant",
				"content": null,
				"refusal": null,
				"tool_calls": [{
					"id": "call_1",
					"type": "function",
					"function": {"name": %q, "arguments": %s}
				}]
			}
		}]
	}`, name, argsJSON))
}

// LegacyFunctionCall uses the deprecated function_call message field.
func LegacyFunctionCall(name, args string) *openai.ChatCompletion {
	argsJSON, _ := json.Marshal(args)
	return Completion(fmt.Sprintf(`{
		"id": "chatcmpl-fn",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "gpt-3.5-turbo",
		"choices": [{
			"index": 0,
			"finish_reason": "function_call",
			"message": {
				"role": "assistant",
				"content": null,
				"refusal": null,
				"function_call": {"name": %q, "arguments": %s}
			}
		}]
	}`, name, argsJSON))
}
