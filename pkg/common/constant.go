package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyIOTLogDir   string = "IOT_LOG_DIR"
	EnvKeyIOTLogLevel string = "IOT_LOG_LEVEL"

	EnvKeyIOTDBType string = "IOT_DB_TYPE"
	EnvKeyIOTDbPath string = "IOT_DB_PATH"

	EnvKeyIOTDeviceID  string = "IOT_DEVICE_ID"
	EnvKeyIOTPatientID string = "IOT_PATIENT_ID"

	EnvKeyIOTBackendURL   string = "IOT_BACKEND_URL"
	EnvKeyIOTAuthEndpoint string = "IOT_AUTH_ENDPOINT"
	EnvKeyIOTUsername     string = "IOT_USERNAME"
	EnvKeyIOTPassword     string = "IOT_PASSWORD"

	EnvKeyIOTTrendWindow     string = "IOT_TREND_WINDOW"
	EnvKeyIOTCycleInterval   string = "IOT_CYCLE_INTERVAL"
	EnvKeyIOTDeliveryTimeout string = "IOT_DELIVERY_TIMEOUT"
	EnvKeyIOTDeliveryRate    string = "IOT_DELIVERY_RATE"
	EnvKeyIOTDeliveryBurst   string = "IOT_DELIVERY_BURST"

	EnvKeyIOTSensorMode string = "IOT_SENSOR_MODE"
	EnvKeyIOTSerialPort string = "IOT_SERIAL_PORT"
	EnvKeyIOTSerialBaud string = "IOT_SERIAL_BAUD"

	EnvKeyIOTHttpHostPort string = "IOT_HTTP_HOST_PORT"
	EnvKeyIOTGrpcHostPort string = "IOT_GRPC_HOST_PORT"

	EnvKeyIOTMqttBroker string = "IOT_MQTT_BROKER"
	EnvKeyIOTMqttTopic  string = "IOT_MQTT_TOPIC"

	LoggerNameIOTCore      string = "iot_core"
	LoggerNameTransmitter  string = "transmitter"
	LoggerNameSensor       string = "sensor"
	LoggerNameNotifier     string = "notifier"
	LoggerNameStatusServer string = "status_server"
	LoggerNameGrpcServer   string = "grpc_server"

	LoggerFieldIOTCategory  string = "category"
	LoggerCategoryIOTStore  string = "store"
	LoggerCategoryIOTAlert  string = "alert"
	LoggerCategoryDelivery  string = "delivery"
	LoggerCategoryIOTSweep  string = "sweep"
	LoggerCategoryIOTCycle  string = "cycle"
	LoggerCategoryAuthToken string = "token"
)
