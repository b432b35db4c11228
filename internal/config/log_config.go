package config

type LogConfig interface {
	GetLogLevel() string
	GetLogPretty() bool
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

var _ LogConfig = Log{}

func (l Log) GetLogLevel() string { return l.Level }
func (l Log) GetLogPretty() bool  { return l.Pretty }

type ObsConfig interface {
	GetOTelEnabled() bool
	GetOTelEndpoint() string
	GetOTelServiceName() string
	GetOTelSampleRatio() float64
}

type Obs struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

var _ ObsConfig = Obs{}

func (o Obs) GetOTelEnabled() bool        { return o.Enable }
func (o Obs) GetOTelEndpoint() string     { return o.OTLPEndpoint }
func (o Obs) GetOTelServiceName() string  { return o.ServiceName }
func (o Obs) GetOTelSampleRatio() float64 { return o.SampleRatio }

// BootstrapConfig names the admin account seeded at startup. Empty values disable seeding.
type BootstrapConfig interface {
	GetAdminBootstrapUsername() string
	GetAdminBootstrapPassword() string
}

type Bootstrap struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

var _ BootstrapConfig = Bootstrap{}

func (b Bootstrap) GetAdminBootstrapUsername() string { return b.Username }
func (b Bootstrap) GetAdminBootstrapPassword() string { return b.Password }
