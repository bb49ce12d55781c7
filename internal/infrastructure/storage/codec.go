package storage

import (
	"bytes"
	"encoding/json"
)

// DecodeJSON 解码持久化的 JSON，数字保留为 json.Number
// 记录字段是任意 map，直接 Unmarshal 会把整数变成 float64
func DecodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
