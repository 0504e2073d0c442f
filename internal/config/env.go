package config

type AuthSource string

const (
	AuthJWT    AuthSource = "jwt"
	AuthOAuth2 AuthSource = "oauth2"
)

type Auth struct {
	AuthSource AuthSource `mapstructure:"AUTH_SOURCE" default:"jwt"`
	JWTSecret  string     `mapstructure:"AUTH_JWT_SECRET" default:"procure-dev-secret"`
	JWTIssuer  string     `mapstructure:"AUTH_JWT_ISSUER" default:"procure"`
}

type Database struct {
	Host     string `mapstructure:"DATABASE_HOST" default:"localhost"`
	Port     int    `mapstructure:"DATABASE_PORT" default:"5432"`
	Name     string `mapstructure:"DATABASE_NAME" default:"procure"`
	User     string `mapstructure:"DATABASE_USER" default:"postgres"`
	Password string `mapstructure:"DATABASE_PASSWORD" default:"procure"`
}

type Redis struct {
	Host     string `mapstructure:"REDIS_HOST" default:"127.0.0.1"`
	Port     int    `mapstructure:"REDIS_PORT" default:"6379"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB" default:"0"`
}

type Server struct {
	Platform   string `mapstructure:"PLATFORM" default:"pharmlab"`
	Service    string `mapstructure:"SERVICE" default:"procure"`
	Port       int    `mapstructure:"WEB_PORT" default:"8080"`
	NotifyPort int    `mapstructure:"NOTIFY_PORT" default:"8081"`
	GrpcPort   int    `mapstructure:"GRPC_PORT" default:"9090"`
	Env        string `mapstructure:"ENV" default:"dev"`
}

// OAuth2 is only consulted when AUTH_SOURCE=oauth2.
type OAuth2 struct {
	ClientID     string   `mapstructure:"OAUTH2_CLIENT_ID"`
	ClientSecret string   `mapstructure:"OAUTH2_CLIENT_SECRET"`
	Scopes       []string `mapstructure:"OAUTH2_SCOPES" default:"[\"read\",\"write\"]"`
	TokenURL     string   `mapstructure:"OAUTH2_TOKEN_URL" default:"http://localhost:8000/api/login/oauth/access_token"`
	AuthURL      string   `mapstructure:"OAUTH2_AUTH_URL" default:"http://localhost:8000/login/oauth/authorize"`
	UserInfoURL  string   `mapstructure:"OAUTH2_USERINFO_URL" default:"http://localhost:8000/api/userinfo"`
}

type Catalog struct {
	Addr    string `mapstructure:"CATALOG_ADDR" default:""`
	ApiKey  string `mapstructure:"CATALOG_APIKEY" default:""`
	Timeout int    `mapstructure:"CATALOG_TIMEOUT_SECONDS" default:"5"`
}

type Log struct {
	LogPath  string `mapstructure:"LOG_PATH" default:"./info.log"`
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
}

type Trace struct {
	Version        string `mapstructure:"TRACE_VERSION" default:"0.0.1"`
	TraceEndpoint  string `mapstructure:"TRACE_TRACEENDPOINT" default:""`
	MetricEndpoint string `mapstructure:"TRACE_METRICENDPOINT" default:""`
	Stdout         bool   `mapstructure:"TRACE_STDOUT" default:"false"`
}

type Notify struct {
	Channel   string `mapstructure:"NOTIFY_CHANNEL" default:"procure-quotation-changed"`
	PoolSize  int    `mapstructure:"NOTIFY_POOL_SIZE" default:"64"`
	MaxMsgLen int64  `mapstructure:"NOTIFY_MAX_MESSAGE_SIZE" default:"65536"`
}

// Inventory.SnapshotTTL bounds how long a cached stock snapshot is served
// before it is read again. Zero keeps snapshots until stock changes here.
type Inventory struct {
	SnapshotTTL int `mapstructure:"INVENTORY_SNAPSHOT_TTL_SECONDS" default:"30"`
}
