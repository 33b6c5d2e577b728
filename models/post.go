package models

// PostFields are the fields PUT /blogs/:id replaces. Anything else in the
// request body is ignored by the update.
var PostFields = []string{"title", "image", "category", "full", "description"}

// UpdateFields picks the replaceable post fields out of a request body.
// A field absent from the body is written as null.
func UpdateFields(body Document) Document {
	fields := make(Document, len(PostFields))
	for _, name := range PostFields {
		fields[name] = body[name]
	}
	return fields
}
