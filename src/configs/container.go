package configs

import (
	"os"
	"strings"
)

// isInContainer 仅依据镜像在 Dockerfile 中设置的环境变量进行判断。
// Dockerfile 会设置 `ENV IS_DOCKER=true`，只要该变量为 true 即视为在容器内。
func isInContainer() bool {
	return strings.ToLower(strings.TrimSpace(os.Getenv("IS_DOCKER"))) == "true"
}
