package roundtable

import (
	"context"

	"github.com/cloudwego/eino/components/model"
)

// ChatModelFactory 对话模型工厂端口，由基础设施层实现
type ChatModelFactory interface {
	// Get 按提供商名称返回对话模型，名称为空时使用默认提供商
	Get(ctx context.Context, name string) (model.BaseChatModel, error)
}
