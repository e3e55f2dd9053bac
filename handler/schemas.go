package handler

import (
	"school-api/model"
	"school-api/schema"
)

var (
	AttendanceLogSchema = schema.Schema{
		"location": {Kind: schema.String, Required: true},
		"remark":   {Kind: schema.String, Required: true},
	}

	ClassStatusSchema = schema.Schema{
		"grade": {Kind: schema.Int, Required: true},
		"class": {Kind: schema.Int, Required: true},
	}

	menu = schema.Field{Kind: schema.Array, Items: &schema.Field{Kind: schema.String}, Default: []string{}}

	MealSchema = schema.Schema{
		"date":      {Kind: schema.Date, Required: true},
		"breakfast": menu,
		"lunch":     menu,
		"dinner":    menu,
	}

	EditMealSchema = schema.Schema{
		"breakfast": {Kind: schema.Array, Items: &schema.Field{Kind: schema.String}},
		"lunch":     {Kind: schema.Array, Items: &schema.Field{Kind: schema.String}},
		"dinner":    {Kind: schema.Array, Items: &schema.Field{Kind: schema.String}},
	}

	OutgoRequestSchema = schema.Schema{
		"applier":      {Kind: schema.Array, Required: true, Items: &schema.Field{Kind: schema.String}},
		"approver":     {Kind: schema.String, Required: true},
		"reason":       {Kind: schema.String, Required: true},
		"detailReason": {Kind: schema.String, Default: ""},
		"duration": {Kind: schema.Object, Required: true, Fields: schema.Schema{
			"start": {Kind: schema.Date, Required: true},
			"end":   {Kind: schema.Date, Required: true},
		}},
	}

	OutgoDecisionSchema = schema.Schema{
		"status": {Kind: schema.String, Required: true, Enum: []any{string(model.OutgoApproved), string(model.OutgoDenied)}},
	}
)

// IngangApplicationSchema restricts time to the configured slot codes.
func IngangApplicationSchema(timeSlots []int) schema.Schema {
	enum := make([]any, len(timeSlots))
	for i, slot := range timeSlots {
		enum[i] = slot
	}
	return schema.Schema{
		"time": {Kind: schema.Int, Required: true, Enum: enum},
	}
}
