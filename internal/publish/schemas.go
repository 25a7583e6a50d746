package publish

const reportSchema = `{
  "type": "object",
  "title": "CookieActivityReported",
  "properties": {
    "event_id": {"type": "string"},
    "run_id": {"type": "string"},
    "date": {"type": "string", "format": "date"},
    "cookies": {"type": "array", "items": {"type": "string"}},
    "max_count": {"type": "integer"},
    "sources_read": {"type": "integer"},
    "sources_skipped": {"type": "integer"},
    "lines_skipped": {"type": "integer"},
    "generated_at": {"type": "string", "format": "date-time"}
  },
  "required": ["event_id", "run_id", "date", "cookies", "max_count", "generated_at"],
  "additionalProperties": false
}`
