package metrics

import "go.opentelemetry.io/otel/attribute"

// Label 指标标签
//
// 标签值应保持低基数，例如容器类型、向量长度、运行 ID。
type Label struct {
	Key   string
	Value string
}

// L 创建一个 Label
//
//	pub.PublishCumulative(ctx, entries, metrics.L("container", "dense"))
func L(key, value string) Label {
	return Label{Key: key, Value: value}
}

// 发布时附加在每个采样上的标签键
const (
	LabelTimer     = "label"
	LabelContainer = "container"
	LabelSize      = "size"
	LabelRunID     = "run_id"
)

func toAttributes(timerLabel string, labels []Label) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels)+1)
	attrs = append(attrs, attribute.String(LabelTimer, timerLabel))
	for _, l := range labels {
		attrs = append(attrs, attribute.String(l.Key, l.Value))
	}
	return attrs
}
