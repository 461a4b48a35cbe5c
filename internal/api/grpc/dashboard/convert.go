package dashboard

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cardfolio/dashboard-sync/internal/domain/period"
	"github.com/cardfolio/dashboard-sync/internal/service/cardimage"
)

// toImageStruct converts an image resolution result to a protobuf Struct.
func toImageStruct(result cardimage.Result) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"url":         structpb.NewStringValue(result.URL),
		"placeholder": structpb.NewBoolValue(result.Placeholder),
		"exhausted":   structpb.NewBoolValue(result.Exhausted),
		"attempts":    structpb.NewNumberValue(float64(result.Attempts)),
	}}
}

// toPeriodStruct converts a benefit period summary to a protobuf Struct.
func toPeriodStruct(summary period.Summary) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"period_start":     structpb.NewStringValue(summary.Start.String()),
		"period_end":       structpb.NewStringValue(summary.End.String()),
		"days_until_reset": structpb.NewNumberValue(float64(summary.DaysUntilReset)),
		"reset_label":      structpb.NewStringValue(summary.ResetLabel),
	}}
}

// toFiveTwentyFourStruct converts a 5/24 status to a protobuf Struct.
func toFiveTwentyFourStruct(status period.FiveTwentyFourStatus) *structpb.Struct {
	dropOffs := make([]*structpb.Value, 0, len(status.DropOffs))
	for _, dropOff := range status.DropOffs {
		dropOffs = append(dropOffs, structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"open_date":    structpb.NewStringValue(dropOff.Opened.String()),
			"dropoff_date": structpb.NewStringValue(dropOff.DropOff.String()),
		}}))
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"count":         structpb.NewNumberValue(float64(status.Count)),
		"status":        structpb.NewStringValue(status.Status),
		"dropoff_dates": structpb.NewListValue(&structpb.ListValue{Values: dropOffs}),
	}}
}
