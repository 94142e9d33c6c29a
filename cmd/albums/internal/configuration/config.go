package configuration

import "github.com/adampresley/configinator"

type Config struct {
	AlbumID          string `flag:"album" env:"ALBUM_ID" default:"" description:"Album ID to act on"`
	ApiBaseURL       string `flag:"api" env:"API_BASE_URL" default:"http://localhost:8081" description:"Base URL of the albums API"`
	Command          string `flag:"cmd" env:"COMMAND" default:"browse" description:"Command to run. Valid values are 'browse', 'list', 'album', 'create', 'upload', 'download', 'download-album', and 'quota'"`
	Description      string `flag:"description" env:"DESCRIPTION" default:"" description:"Description for a new album"`
	Files            string `flag:"files" env:"FILES" default:"" description:"Comma separated list of image files to upload"`
	ImageID          string `flag:"image" env:"IMAGE_ID" default:"" description:"Image ID to download"`
	ImageName        string `flag:"imagename" env:"IMAGE_NAME" default:"" description:"File name to save a downloaded image as"`
	LogLevel         string `flag:"loglevel" env:"LOG_LEVEL" default:"warn" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxUploadWorkers int    `flag:"muw" env:"MAX_UPLOAD_WORKERS" default:"4" description:"Maximum number of concurrent uploads. Negative means one per file"`
	Name             string `flag:"name" env:"NAME" default:"" description:"Name for a new album"`
	OutputDir        string `flag:"out" env:"OUTPUT_DIR" default:"." description:"Directory downloads are saved to"`
	Route            string `flag:"route" env:"ROUTE" default:"#/" description:"Location fragment to browse, e.g. '#/albums/123'"`
	TotalStorageMB   int    `flag:"tsm" env:"TOTAL_STORAGE_MB" default:"5000" description:"Storage ceiling shown in the quota, in MB"`
	UserID           string `flag:"user" env:"USER_ID" default:"user-test-123" description:"Development user ID sent to the API"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}
