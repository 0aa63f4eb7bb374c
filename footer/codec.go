package footer

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/xitongsys/parquet-go/parquet"

	"github.com/danthegoodman1/icefooter/interchange"
	"github.com/danthegoodman1/icefooter/metadata"
)

// Marshal lowers fmd and encodes it with the thrift compact protocol.
func Marshal(fmd *metadata.FileMetaData) ([]byte, error) {
	wire, err := interchange.FileMetaDataToThrift(fmd)
	if err != nil {
		return nil, fmt.Errorf("error in FileMetaDataToThrift: %w", err)
	}
	return MarshalThrift(wire)
}

func MarshalThrift(wire *parquet.FileMetaData) ([]byte, error) {
	ts := thrift.NewTSerializer()
	ts.Protocol = thrift.NewTCompactProtocolFactory().GetProtocol(ts.Transport)
	b, err := ts.Write(context.TODO(), wire)
	if err != nil {
		return nil, fmt.Errorf("error in thrift Write: %w", err)
	}
	return b, nil
}

// Unmarshal decodes compact protocol footer bytes and lifts them.
func Unmarshal(b []byte) (*metadata.FileMetaData, error) {
	wire, err := UnmarshalThrift(b)
	if err != nil {
		return nil, err
	}
	fmd, err := interchange.FileMetaDataFromThrift(wire)
	if err != nil {
		return nil, fmt.Errorf("error in FileMetaDataFromThrift: %w", err)
	}
	return fmd, nil
}

func UnmarshalThrift(b []byte) (*parquet.FileMetaData, error) {
	td := thrift.NewTDeserializer()
	td.Protocol = thrift.NewTCompactProtocolFactory().GetProtocol(td.Transport)
	wire := parquet.NewFileMetaData()
	if err := td.Read(context.TODO(), wire, b); err != nil {
		return nil, fmt.Errorf("error in thrift Read: %w", err)
	}
	return wire, nil
}
